package main

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkly/inkly/internal/content"
	"github.com/inkly/inkly/internal/logging"
	"github.com/inkly/inkly/internal/server"
	"github.com/inkly/inkly/internal/server/auth"
	"github.com/inkly/inkly/internal/server/repositories/repomanager"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogBackend, cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			db, err := openDB(cfg.DatabaseDSN)
			if err != nil {
				return fmt.Errorf("db init error: %w", err)
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := repomanager.NewPostgresRepositoryManager().RunMigrations(ctx, db); err != nil {
				logger.Error(ctx, "migrations failed", "error", err.Error())
				return fmt.Errorf("migrations error: %w", err)
			}
			logger.Info(ctx, "migrations applied")
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var (
		p      auth.Principal
		expiry time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a signed access token for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !p.Authenticated() {
				return errors.New("--email is required")
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if expiry <= 0 {
				expiry = cfg.TokenValidityDuration
			}

			tok, err := auth.GenerateToken(p, []byte(cfg.SecretKey), expiry)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.Email, "email", "", "account email claim")
	f.StringVar(&p.Name, "name", "", "display name claim")
	f.StringVar(&p.UserID, "user-id", "", "subject claim")
	f.DurationVar(&expiry, "expiry", 0, "token lifetime (defaults to the configured validity)")
	return cmd
}

// usernameKind selects ValidateUsername instead of a text policy.
const usernameKind = "username"

type moderationResult struct {
	Kind     string           `json:"kind"`
	Accepted bool             `json:"accepted"`
	Reasons  []content.Reason `json:"reasons"`
	Length   int              `json:"length"`
}

func newModerateCmd(opts *rootOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "moderate [text...]",
		Short: "Run the moderation gate over text from args or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			gate, err := server.NewGate(cfg)
			if err != nil {
				return err
			}

			res := moderationResult{Kind: kind, Length: content.LengthOf(text)}
			if kind == usernameKind {
				res.Reasons = []content.Reason{}
				var verr *content.ValidationError
				if err := gate.ValidateUsername(text); errors.As(err, &verr) {
					res.Reasons = verr.Reasons
				} else if err != nil {
					return err
				}
				res.Accepted = len(res.Reasons) == 0
				return writeJSON(cmd.OutOrStdout(), res)
			}

			k := content.Kind(kind)
			if _, ok := gate.Policy().Bounds[k]; !ok {
				return fmt.Errorf("unknown kind %q (known: %v)", kind, knownKinds(gate.Policy()))
			}
			v := gate.EvaluateKind(text, k)
			res.Accepted, res.Reasons = v.Accepted, v.Reasons
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", string(content.KindInk), "text kind: ink, name, bio, location or username")
	return cmd
}

func knownKinds(p *content.Policy) []string {
	out := make([]string, 0, len(p.Bounds)+1)
	for k := range p.Bounds {
		out = append(out, string(k))
	}
	out = append(out, usernameKind)
	sort.Strings(out)
	return out
}

type classification struct {
	Type   content.Type `json:"type"`
	Tags   []string     `json:"tags"`
	Mood   string       `json:"mood,omitempty"`
	Length int          `json:"length"`
}

func newClassifyCmd() *cobra.Command {
	var markup bool

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify text and extract its hashtags and mood",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}
			if markup {
				text = content.StripMarkup(text)
			}
			tm := content.ExtractTagsAndMood(text)
			return writeJSON(cmd.OutOrStdout(), classification{
				Type:   content.Classify(text),
				Tags:   tm.Tags,
				Mood:   tm.Mood,
				Length: content.LengthOf(text),
			})
		},
	}

	cmd.Flags().BoolVar(&markup, "markup", false, "strip HTML markup before classifying")
	return cmd
}
