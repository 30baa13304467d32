package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/joestump/joe-stock/internal/auth"
	"github.com/joestump/joe-stock/internal/store"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API credentials",
	}
	cmd.AddCommand(newTokenCreateCmd(), newTokenListCmd(), newTokenRevokeCmd(), newTokenJWTCmd())
	return cmd
}

func newTokenCreateCmd() *cobra.Command {
	var email, name string
	var expiresIn time.Duration
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an API token for a user, creating the user if needed",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(true)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			ctx := cmd.Context()
			u, err := store.NewUserStore(e.db).EnsureByEmail(ctx, email, "")
			if err != nil {
				return fmt.Errorf("ensure user: %w", err)
			}

			plaintext, hash, err := auth.GenerateToken()
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}
			var exp *time.Time
			if expiresIn > 0 {
				t := time.Now().UTC().Add(expiresIn)
				exp = &t
			}
			rec, err := auth.NewSQLTokenStore(e.db).Create(ctx, u.ID, name, hash, exp)
			if err != nil {
				return fmt.Errorf("store token: %w", err)
			}

			e.logger.Info("token created", "token_id", rec.ID, "user_id", u.ID)
			// The plaintext is shown once and never stored.
			fmt.Fprintln(cmd.OutOrStdout(), plaintext)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "owner email (required)")
	cmd.Flags().StringVar(&name, "name", "cli", "token label")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "lifetime, e.g. 720h (default: never)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newTokenListCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's API tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(false)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			ctx := cmd.Context()
			u, err := store.NewUserStore(e.db).GetByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", email, err)
			}
			records, err := auth.NewSQLTokenStore(e.db).ListByUser(ctx, u.ID)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCREATED\tLAST USED\tSTATUS")
			for _, rec := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					rec.ID, rec.Name, rec.CreatedAt.Format(time.RFC3339), lastUsed(rec), tokenStatus(rec, time.Now()))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "owner email (required)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newTokenRevokeCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "revoke <token-id>",
		Short: "Revoke an API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(false)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			ctx := cmd.Context()
			u, err := store.NewUserStore(e.db).GetByEmail(ctx, email)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", email, err)
			}
			if err := auth.NewSQLTokenStore(e.db).Revoke(ctx, args[0], u.ID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("token %s not found for %s", args[0], email)
				}
				return err
			}
			e.logger.Info("token revoked", "token_id", args[0], "user_id", u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "owner email (required)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newTokenJWTCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "jwt",
		Short: "Issue a JWT for a user signed with JOE_AUTH_JWT_SECRET",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(true)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			if e.cfg.Auth.JWTSecret == "" {
				return errors.New("JOE_AUTH_JWT_SECRET is not set")
			}
			u, err := store.NewUserStore(e.db).EnsureByEmail(cmd.Context(), email, "")
			if err != nil {
				return fmt.Errorf("ensure user: %w", err)
			}
			token, err := auth.NewJWTSigner(e.cfg.Auth.JWTSecret, e.cfg.Auth.JWTTTL).Issue(u.ID, u.Email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "subject email (required)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func lastUsed(rec *auth.TokenRecord) string {
	if !rec.LastUsedAt.Valid {
		return "never"
	}
	return rec.LastUsedAt.Time.Format(time.RFC3339)
}

func tokenStatus(rec *auth.TokenRecord, now time.Time) string {
	switch {
	case rec.RevokedAt.Valid:
		return "revoked"
	case !rec.Active(now):
		return "expired"
	default:
		return "active"
	}
}
