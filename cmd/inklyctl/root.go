package main

import (
	"database/sql"
	"encoding/json"
	"io"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/inkly/inkly/internal/server/config"
)

// openDB is swapped in tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type rootOptions struct {
	configFile string
	dsn        string
	secret     string
	policyFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "inklyctl",
		Short:         "Operate an Inkly deployment",
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configFile, "config", "c", "", "JSON config file (defaults to $INKLY_CONFIG)")
	pf.StringVar(&opts.dsn, "dsn", "", "PostgreSQL DSN, overrides the config file")
	pf.StringVar(&opts.secret, "secret", "", "token signing secret, overrides the config file")
	pf.StringVar(&opts.policyFile, "policy", "", "moderation policy YAML, overrides the config file")

	root.AddCommand(
		newMigrateCmd(opts),
		newTokenCmd(opts),
		newModerateCmd(opts),
		newClassifyCmd(),
	)
	return root
}

// loadConfig resolves the server config the same way the server does, then
// applies the inklyctl overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var args []string
	if o.configFile != "" {
		args = []string{"-c", o.configFile}
	}
	cfg, err := config.Load(args)
	if err != nil {
		return nil, err
	}
	if o.dsn != "" {
		cfg.DatabaseDSN = o.dsn
	}
	if o.secret != "" {
		cfg.SecretKey = o.secret
	}
	if o.policyFile != "" {
		cfg.ModerationPolicyFile = o.policyFile
	}
	return cfg, nil
}

// inputText joins args, or reads all of stdin when there are none.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\n"), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
