// Package shutdown provides graceful shutdown handling.
//
// A Handler collects named hooks, waits for SIGINT, SIGTERM, a Trigger
// call or the parent context, then runs the hooks in reverse registration
// order under one timeout.
//
// Usage:
//
//	h := shutdown.NewHandler(10*time.Second, log)
//	h.OnShutdown("redis server", redisSrv.Shutdown)
//	err := h.Wait(ctx)
package shutdown
