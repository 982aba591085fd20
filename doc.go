// Package fungp implements an island-model, parallel genetic
// programming engine: N independent populations of module-wrapped
// expression trees evolve concurrently, periodically exchanging
// individuals, until an iteration/migration budget is spent or a
// zero-fitness individual appears.
//
// A candidate is a Module: a result-defining expression Tree optionally
// wrapped in automatically-defined function (ADF) and automatically-
// defined loop (ADL) branches. Operators and variables are caller-
// supplied Symbol values; the engine never interprets them beyond
// matching declared arity. Fitness, reporting, and the function/
// terminal sets are supplied via Options to Run, the package's single
// entry point.
package fungp
