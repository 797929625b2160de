package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dohkar/dohkar-api/internal/app"
	"github.com/dohkar/dohkar-api/internal/bootstrap"
	"github.com/dohkar/dohkar-api/internal/security/password"
)

func newAdminCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Gestión de administradores",
	}

	var phone, pwd string
	create := &cobra.Command{
		Use:   "create",
		Short: "Crea un admin o promueve al usuario con ese teléfono",
		RunE: func(cmd *cobra.Command, args []string) error {
			if pwd == "" {
				pwd = os.Getenv("ADMIN_PASSWORD")
			}
			if phone == "" {
				return errors.New("--phone is required")
			}
			st, err := app.OpenStore(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			blacklist, err := password.LoadBlacklist(c.cfg.Auth.PasswordBlacklist)
			if err != nil {
				return err
			}
			policy := password.DefaultPolicy
			policy.Blacklist = blacklist

			u, created, err := bootstrap.EnsureAdmin(cmd.Context(), bootstrap.AdminBootstrapConfig{
				Users:    st.Users(),
				Phone:    phone,
				Password: pwd,
				Params:   password.Default,
				Policy:   policy,
			})
			if err != nil {
				return err
			}
			verb := "promoted"
			if created {
				verb = "created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s admin %s\n", verb, u.ID)
			return nil
		},
	}
	create.Flags().StringVar(&phone, "phone", "", "Teléfono del admin (+7XXXXXXXXXX)")
	create.Flags().StringVar(&pwd, "password", "", "Contraseña (env ADMIN_PASSWORD)")

	var id string
	promote := &cobra.Command{
		Use:   "promote",
		Short: "Asigna el rol ADMIN a un usuario existente",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				return errors.New("--id is required")
			}
			st, err := app.OpenStore(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			u, err := bootstrap.Promote(cmd.Context(), st.Users(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "promoted %s\n", u.ID)
			return nil
		},
	}
	promote.Flags().StringVar(&id, "id", "", "ID del usuario")

	cmd.AddCommand(create, promote)
	return cmd
}
