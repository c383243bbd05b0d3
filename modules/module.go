package modules

import (
	"fmt"
	"log/slog"

	"github.com/goland-express/obey/registry"
)

// Module is a named bundle of root command declarations. The module name
// becomes the help group of every root that does not set its own.
type Module interface {
	Name() string
	Commands() []registry.Declaration
}

// Register adds each module's commands as one batch per module and stops at
// the first failure.
func Register(r *registry.Registry, modules ...Module) error {
	for _, module := range modules {
		decls := module.Commands()
		for i := range decls {
			if decls[i].Group == "" {
				decls[i].Group = module.Name()
			}
		}

		if err := r.Add(decls...); err != nil {
			return fmt.Errorf("register module %s: %w", module.Name(), err)
		}
		slog.Info("Module loaded", slog.String("module", module.Name()), slog.Int("commands", len(decls)))
	}
	return nil
}
