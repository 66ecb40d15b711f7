package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/codetrack/internal/model"
	"github.com/manav03panchal/codetrack/internal/output"
)

// completeActivities completes activity titles, described by their parent.
func completeActivities(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if ctx == nil || ctx.Store == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, rec := range ctx.Store.Activities() {
		if hasPrefixFold(rec.Title, toComplete) || strings.HasPrefix(output.ShortID(rec.ID), toComplete) {
			completions = append(completions, rec.Title+"\t"+rec.ParentKind.Label()+": "+rec.ParentTitle)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeContainers returns a completion function for course or project
// titles.
func completeContainers(kind model.ParentKind) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if ctx == nil || ctx.Store == nil || len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		var completions []string
		for _, c := range ctx.Store.Containers(kind) {
			if hasPrefixFold(c.Title, toComplete) {
				completions = append(completions, c.Title+"\t"+kind.Label())
			}
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeLogArgs walks the "DURATION on ACTIVITY" shape of the log command.
func completeLogArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return []string{"30m", "1h", "1h30m", "2h"}, cobra.ShellCompDirectiveNoFileComp
	case 1:
		return []string{"on"}, cobra.ShellCompDirectiveNoFileComp
	case 2:
		return completeActivities(cmd, args, toComplete)
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// fixedCompletions completes a flag from a closed set of values.
func fixedCompletions(values ...string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var completions []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				completions = append(completions, v)
			}
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	}
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
