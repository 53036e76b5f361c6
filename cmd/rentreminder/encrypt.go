package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/rentreminder/internal/security/secretbox"
)

// encrypt-secret: genera el valor de smtp.password_enc / EMAIL_PASSWORD_ENC.
func newEncryptCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt-secret [secreto]",
		Short: "Cifra un secreto con SECRETBOX_MASTER_KEY (si no se pasa, se lee de stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load(opts.envFile)

			key, err := secretbox.ParseKey(os.Getenv(secretbox.EnvVar))
			if err != nil {
				return err
			}

			var plain string
			if len(args) == 1 {
				plain = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read secret from stdin: %w", err)
				}
				plain = strings.TrimRight(line, "\r\n")
			}
			if plain == "" {
				return errors.New("secreto vacío")
			}

			enc, err := secretbox.Encrypt(key, plain)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), enc)
			return nil
		},
	}
}
