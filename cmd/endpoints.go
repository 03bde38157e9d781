package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oshokin/frb/fred"
	"github.com/oshokin/frb/internal/app"
	"github.com/oshokin/frb/internal/logger"
	"github.com/oshokin/frb/internal/utils"
)

// newFamilyCommands builds one command per resource family with a subcommand per endpoint.
func newFamilyCommands() []*cobra.Command {
	families := fred.Families()
	commands := make([]*cobra.Command, 0, len(families))
	byFamily := make(map[fred.Family]*cobra.Command, len(families))

	for _, family := range families {
		familyCmd := &cobra.Command{
			Use:   string(family),
			Short: fmt.Sprintf("Query the %s endpoints.", family),
		}

		addQueryFlags(familyCmd.PersistentFlags())

		byFamily[family] = familyCmd
		commands = append(commands, familyCmd)
	}

	for _, endpoint := range fred.Endpoints() {
		byFamily[endpoint.Family].AddCommand(newEndpointCommand(endpoint))
	}

	return commands
}

// newEndpointCommand maps the endpoint's required parameters to positional arguments.
func newEndpointCommand(endpoint fred.Endpoint) *cobra.Command {
	name := strings.ReplaceAll(endpoint.Name, "_", "-")

	use := name
	for _, required := range endpoint.Required {
		use += " <" + required + ">"
	}

	var aliases []string
	if name != endpoint.Name {
		aliases = append(aliases, endpoint.Name)
	}

	long := endpoint.Summary
	if len(endpoint.Optional) > 0 {
		long += "\n\nOptional parameters (--param name=value): " + strings.Join(endpoint.Optional, ", ") + "."
	}

	return &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   endpoint.Summary,
		Long:    long,
		Args:    cobra.ExactArgs(len(endpoint.Required)),
		Run: func(cmd *cobra.Command, args []string) {
			query, err := buildQuery(cmd.Flags(), endpoint, args)
			if err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse arguments: %v", err)
			}

			if err = bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			app.ExecuteQueryCommand(cmd.Context(), appConfig, query, cmd.OutOrStdout())
		},
	}
}

// buildQuery collects the --param pairs and positional arguments of an endpoint command.
// Positional arguments win over --param pairs with the same name.
func buildQuery(flags *pflag.FlagSet, endpoint fred.Endpoint, args []string) (app.Query, error) {
	params := make(fred.Params, len(args))

	rawParams, _ := flags.GetStringArray("param")
	for _, pair := range rawParams {
		key, value, err := utils.ParseKeyValue(pair)
		if err != nil {
			return app.Query{}, fmt.Errorf("invalid parameter '%s': %w", pair, err)
		}

		params[key] = value
	}

	for i, required := range endpoint.Required {
		params[required] = args[i]
	}

	noCache, _ := flags.GetBool("no-cache")

	return app.Query{
		Family:  endpoint.Family,
		Name:    endpoint.Name,
		Args:    params,
		NoCache: noCache,
	}, nil
}
