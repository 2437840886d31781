package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/punchcard/internal/cli"
	"github.com/julianstephens/punchcard/internal/keyring"
	"github.com/julianstephens/punchcard/internal/storage/postgres"
)

// ConfigSetConnectionCmd stores a PostgreSQL connection string in the OS keyring
type ConfigSetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in the keyring."`
}

func (cmd *ConfigSetConnectionCmd) Run(ctx *cli.Context) error {
	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is encrypted, so a password is acceptable here
		ctx.Println("⚠️  Warning: Connection string contains embedded credentials.")
		ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.Set(cmd.ConnectionString); err != nil {
		return err
	}
	ctx.Println("✓ Connection string stored in OS keyring")
	ctx.Println("  punchcard will use it when --config and the environment are unset")
	return nil
}

// ConfigDeleteConnectionCmd removes the stored connection string
type ConfigDeleteConnectionCmd struct{}

func (cmd *ConfigDeleteConnectionCmd) Run(ctx *cli.Context) error {
	if err := keyring.Delete(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.Println("✓ Connection string deleted from OS keyring")
	return nil
}

// ConfigShowCmd prints the store location in use, with any password masked
type ConfigShowCmd struct{}

func (cmd *ConfigShowCmd) Run(ctx *cli.Context) error {
	ctx.Printf("Storage: %s\n", cli.DisplayLocation(ctx.Store.GetConfigPath()))
	if connStr, err := keyring.Get(); err == nil {
		ctx.Printf("Keyring: %s\n", keyring.Mask(connStr))
	} else if errors.Is(err, keyring.ErrNotFound) {
		ctx.Println("Keyring: no connection string stored")
	} else {
		ctx.Println("Keyring: unavailable")
	}
	return nil
}
