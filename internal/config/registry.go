package config

// Option is a command-line option and its default value.
type Option struct {
	Name    string
	Default any
}

// Command is a subcommand and the options it declares, in declaration order.
type Command struct {
	Name    string
	Options []Option
}

// Declares reports whether c declares an option called name.
func (c Command) Declares(name string) bool {
	for _, o := range c.Options {
		if o.Name == name {
			return true
		}
	}
	return false
}

// Registry lists every subcommand of the CLI. It is built once from static
// option tables and never modified afterwards.
type Registry []Command

// Lookup returns the command called name.
func (r Registry) Lookup(name string) (Command, bool) {
	for _, c := range r {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// BorrowedDefaults collects the defaults of options declared by commands
// other than active, skipping names active declares itself. When several
// commands declare the same borrowed option the last one wins.
//
// Configuration is resolved once for all commands, so settings consumed
// later may belong to commands that are not running.
func BorrowedDefaults(reg Registry, active string) map[string]any {
	own, _ := reg.Lookup(active)

	borrowed := make(map[string]any)
	for _, c := range reg {
		if c.Name == active {
			continue
		}
		for _, o := range c.Options {
			if own.Declares(o.Name) {
				continue
			}
			borrowed[o.Name] = o.Default
		}
	}
	return borrowed
}
