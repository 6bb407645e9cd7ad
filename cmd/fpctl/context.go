package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/dtroode/fingerprint-server/internal/api/grpc/client"
)

type commandContext struct {
	configFlag  string
	addressFlag string
	tokenFlag   string
	jsonOutput  bool

	configOnce sync.Once
	config     cliConfig
	configErr  error
}

func (c *commandContext) ensureConfig() (cliConfig, error) {
	c.configOnce.Do(func() {
		cfg, err := loadConfig(c.configFlag)
		if err != nil {
			c.configErr = err
			return
		}
		if c.addressFlag != "" {
			cfg.Address = c.addressFlag
		}
		if c.tokenFlag != "" {
			cfg.Token = c.tokenFlag
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) withClient(cmd *cobra.Command, fn func(context.Context, *client.Client) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if cfg.Token == "" {
		return errors.New("no operator token: set token in the config file, FPCTL_TOKEN or --token")
	}

	cl, err := client.New(client.Options{
		Address:  cfg.Address,
		Token:    cfg.Token,
		TLS:      cfg.TLS,
		Insecure: cfg.Insecure,
	})
	if err != nil {
		return err
	}
	defer cl.Close()

	if err := fn(cmd.Context(), cl); err != nil {
		return describeError(err, cfg.Address)
	}
	return nil
}

// describeError prefixes server errors with their kind so they read well in a
// terminal.
func describeError(err error, address string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, errNoMatch) {
		return err
	}
	if kind := client.KindOf(err); kind != "" {
		return fmt.Errorf("%s: %w", kind, err)
	}
	return fmt.Errorf("call fingerprintd at %s: %w", address, err)
}
