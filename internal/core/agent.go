package core

// AgentID stably identifies an agent for the lifetime of a ProblemInstance.
type AgentID int

// Agent is a single pathfinding agent's immutable identity: a stable
// number, a start cell, and a goal cell. Mutable search state
// (position/direction/g/h/back-pointer while planning) lives in
// internal/algo.AgentState, not here — this type never changes once the
// instance is built.
type Agent struct {
	ID         AgentID
	StartX     int
	StartY     int
	GoalX      int
	GoalY      int
}

// NewAgent creates an Agent with the given stable id, start, and goal.
func NewAgent(id AgentID, startX, startY, goalX, goalY int) Agent {
	return Agent{ID: id, StartX: startX, StartY: startY, GoalX: goalX, GoalY: goalY}
}
