// Package admincli implements the operator command line used to create admin
// accounts directly against the configured record store.
package admincli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/matchmaker/internal/flagx"
	"github.com/dmitrijs2005/matchmaker/internal/server/models"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// AdminCreator is satisfied by *services.AdminService.
type AdminCreator interface {
	CreateAdmin(ctx context.Context, username, password string) (*models.Admin, error)
}

type App struct {
	admins AdminCreator
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(admins AdminCreator, in io.Reader, out io.Writer) *App {
	return &App{admins: admins, reader: bufio.NewReader(in), out: out}
}

const usage = `usage: admin create [-u username]

Creates an admin account. The password is read from the terminal twice.`

// Run executes the command in args (without the program name).
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "create" {
		fmt.Fprintln(a.out, usage)
		return fmt.Errorf("unknown command")
	}

	var username string
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&username, "u", "", "admin username")
	fs.StringVar(&username, "username", "", "admin username")
	if err := fs.Parse(flagx.FilterArgs(args[1:], []string{"-u", "-username"})); err != nil {
		return err
	}

	return a.Create(ctx, username)
}

// Create prompts for whatever is missing and creates the admin.
func (a *App) Create(ctx context.Context, username string) error {
	var err error
	if username == "" {
		username, err = GetSimpleText(a.reader, "Enter admin username", a.out)
		if err != nil {
			return err
		}
	}

	password, err := GetPassword(a.out, "Enter password: ")
	if err != nil {
		return err
	}
	confirm, err := GetPassword(a.out, "Repeat password: ")
	if err != nil {
		return err
	}
	if !bytes.Equal(password, confirm) {
		return ErrPasswordMismatch
	}

	admin, err := a.admins.CreateAdmin(ctx, username, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Admin %q created (id %s)\n", admin.Username, admin.AdminID)
	return nil
}
