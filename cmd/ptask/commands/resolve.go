package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/ptask/internal/config"
	"github.com/thoreinstein/ptask/internal/logging"
	"github.com/thoreinstein/ptask/internal/paths"
)

// resolved is the configuration of the running command.
type resolved struct {
	Result   *config.Result
	Settings *config.Settings
}

type resolvedKey struct{}

// newResolver is replaced in tests.
var newResolver = func(cmd *cobra.Command) *config.Resolver {
	r := config.NewResolver(logging.FromContext(cmd.Context()))
	r.Level = logLevel
	return r
}

// resolveConfig merges borrowed defaults, the configuration file and the
// explicit options of cmd, then writes the file values back into the
// flags the user left unset.
func resolveConfig(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	options := optionsOf(cmd)

	user, err := explicitOptions(cmd, options)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		explicitPaths, err := paths.Normalize(args)
		if err != nil {
			return err
		}
		user[config.PathsKey] = explicitPaths
	}

	configFile, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return err
	}

	resolver := newResolver(cmd)
	res, err := resolver.Merge(ctx, config.Request{
		Registry:     commandRegistry(),
		Command:      cmd.Name(),
		UserSupplied: user,
		Paths:        args,
		ConfigFile:   configFile,
	})
	if err != nil {
		return err
	}

	if err := applyFallback(cmd, options, res.Fallback, res.ConfigPath); err != nil {
		return err
	}

	settings, err := resolver.Configure(ctx, res.Params)
	if err != nil {
		return err
	}

	cmd.SetContext(context.WithValue(ctx, resolvedKey{}, &resolved{Result: res, Settings: settings}))
	return nil
}

// resolvedFrom returns the configuration stored by resolveConfig.
func resolvedFrom(cmd *cobra.Command) *resolved {
	ctx := cmd.Context()
	if ctx == nil {
		return nil
	}
	if r, ok := ctx.Value(resolvedKey{}).(*resolved); ok {
		return r
	}
	return nil
}
