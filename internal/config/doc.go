// Package config resolves where ptask's configuration lives and what the
// effective option values are.
//
// # Root Search
//
// [Resolver.Locate] starts at the common ancestor of the paths a command
// was invoked with and walks towards the filesystem root. The first
// directory holding a pyproject.toml with a [tool.pytask.ini_options]
// table becomes the root and that file the configuration. A directory
// holding .git ends the search without a configuration. A manifest that
// lacks the table is skipped, while a manifest that cannot be decoded is a
// fatal *errors.FileError.
//
// # Reading
//
// [Read] returns a tagged [Outcome] so callers can tell a missing section
// from a broken document:
//
//	switch out := config.Read(fsys, path, config.DefaultSection); out.Status {
//	case config.StatusFound:
//	    use(out.Values)
//	case config.StatusSectionAbsent:
//	    // keep searching
//	case config.StatusDecodeError:
//	    return out.Err
//	}
//
// A "paths" list of strings is resolved against the file's directory.
//
// # Merging
//
// [Resolver.Merge] layers, from lowest to highest precedence, the defaults
// borrowed from other commands, the values declared in the configuration
// file and the values typed on the command line. The file values are also
// returned as a fallback table for options the user left unset.
//
//	res, err := resolver.Merge(ctx, config.Request{
//	    Registry: registry,
//	    Command:  "collect",
//	    Paths:    args,
//	})
//
// [Resolver.Configure] then turns the merged parameters into [Settings].
package config
