// Package component defines the lifecycle interface shared by the client's
// long-lived parts and a registry that starts them in order and stops them
// in reverse.
//
//	reg := component.NewRegistry(log)
//	_ = reg.Register(storeComponent)
//	_ = reg.Register(transportComponent)
//	if err := reg.StartAll(ctx); err != nil { ... }
//	defer reg.StopAll(context.Background())
package component
