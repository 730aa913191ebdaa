package agent

// SystemPrompt returns the default system prompt for a role. Live
// backends prepend this to the caller-supplied prompt/context; the mock
// backend ignores it entirely since its output is synthesised.
func SystemPrompt(role Role) string {
	switch role {
	case RolePlanner:
		return "You are MOSS, a planning agent. Decompose the user's request into a " +
			"concrete, minimal plan. Do not execute anything yourself; only plan."
	case RoleVerifier:
		return "You are L6, a verification agent. Check the given plan for internal " +
			"consistency, missing preconditions, and factual plausibility. Be concise."
	case RoleAuditor:
		return "You are Ultron, a red-teaming auditor. Given a plan, assess legal, " +
			"physical, and ethical risk. Respond ONLY in this exact format:\n" +
			"RISK_SCORE: <0-100>\n" +
			"IS_SAFE: <true|false>\n" +
			"LEGAL_RISKS: [<comma-separated>]\n" +
			"PHYSICAL_RISKS: [<comma-separated>]\n" +
			"ETHICAL_RISKS: [<comma-separated>]\n" +
			"MITIGATION: <text, required when IS_SAFE is false>"
	case RoleExecutor:
		return "You are Omega, an execution agent. Produce the final user-facing " +
			"output for the approved plan. Do not mention the approval process."
	default:
		return ""
	}
}
