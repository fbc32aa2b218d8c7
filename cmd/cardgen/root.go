package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/phrazzld/scry-relay/internal/client"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultServer = "http://localhost:8080"

// newRootCmd builds the cardgen command. Flags are bound to v, which also
// reads CARDGEN_* environment variables, e.g. CARDGEN_SERVER.
func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cardgen [flags] topic...",
		Short: "Generate flashcards from a running relay server",
		Example: `  cardgen "Go channels"
  cardgen --context goroutines --context select "Go channels"
  CARDGEN_SERVER=http://relay:8080 cardgen --json "Rust lifetimes"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := strings.Join(args, " ")
			c := client.New(v.GetString("server"), nil)
			return generate(cmd, c, topic, v.GetStringSlice("context"), v.GetBool("json"))
		},
	}

	cmd.Flags().String("server", defaultServer, "relay server base URL")
	cmd.Flags().StringArray("context", nil, "concept already studied; repeat for several")
	cmd.Flags().Bool("json", false, "print raw NDJSON lines")

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
	v.SetEnvPrefix("cardgen")
	v.AutomaticEnv()

	return cmd
}

func generate(cmd *cobra.Command, c *client.Client, topic string, studied []string, raw bool) error {
	out := cmd.OutOrStdout()

	n, err := c.Generate(cmd.Context(), topic, studied, func(l client.Line) error {
		if raw {
			_, err := fmt.Fprintf(out, "%s\n", l.Raw)
			return err
		}
		return printCard(out, l)
	})
	if err != nil {
		return err
	}

	if !raw {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d cards\n", n)
	}
	return nil
}

func printCard(w io.Writer, l client.Line) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Q: %s\nA: %s\n", l.Card.Front, l.Card.Back)
	if l.Card.Code != "" {
		fmt.Fprintf(&b, "```\n%s\n```\n", l.Card.Code)
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}
