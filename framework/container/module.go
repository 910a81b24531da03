package container

// ── Modules ───────────────────────────────────────────────────────────────────

// Module groups related registrations so an application can be assembled
// from self-contained units:
//
//	type StorageModule struct{ DSN string }
//
//	func (m StorageModule) Register(c *container.Container) error {
//	    if err := container.AddSingleton(c, openDB(m.DSN), container.AsOwned()); err != nil {
//	        return err
//	    }
//	    return container.AddTypeMap[UserStore, *sqlUserStore](c, container.Singleton)
//	}
//
// A module runs once, inside AddModule, and is discarded — the container
// keeps the registrations, not the module.
type Module interface {
	Register(c *Container) error
}

// ModuleFunc adapts a plain function to the Module interface.
//
//	c.AddModule(container.ModuleFunc(func(c *container.Container) error {
//	    return container.AddSingleton(c, cfg)
//	}))
type ModuleFunc func(c *Container) error

// Register applies f.
func (f ModuleFunc) Register(c *Container) error { return f(c) }
