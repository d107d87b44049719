package health

// remedies maps each problem tag to exactly one advisory action.
var remedies = map[Problem]string{
	ProblemCPU:    "throttle processing",
	ProblemMemory: "clear cache",
	ProblemDisk:   "rotate/clean logs",
}

// Recommend maps diagnosed problems to remediation actions. Advisory only:
// nothing is mutated here; applying an action is the supervisor's job.
func Recommend(problems []Problem) []string {
	if len(problems) == 0 {
		return nil
	}
	actions := make([]string, 0, len(problems))
	for _, p := range problems {
		if action, ok := remedies[p]; ok {
			actions = append(actions, action)
		}
	}
	return actions
}
