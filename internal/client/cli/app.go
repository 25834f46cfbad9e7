package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/client/config"
)

type App struct {
	config *config.Config
	api    client.Client
	reader *bufio.Reader
	out    io.Writer

	// session
	email string
	token string
}

func NewApp(c *config.Config) (*App, error) {
	api := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout)
	return &App{config: c, api: api, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}
