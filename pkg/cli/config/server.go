package config

import "github.com/urfave/cli/v3"

// Server holds plugin server configuration
type Server struct {
	Addr   string
	Secret string
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("NPM_RELEASE_ADDR"),
		},
		&cli.StringFlag{
			Name:        "secret",
			Usage:       "Shared secret for HMAC-SHA256 request signatures (disabled when empty)",
			Destination: &c.Secret,
			Sources:     cli.EnvVars("NPM_RELEASE_SECRET"),
		},
	}
}
