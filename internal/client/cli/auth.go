package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/visitkeeper/internal/client/state"
	"github.com/dmitrijs2005/visitkeeper/internal/common"
)

// getSimpleText, getMultiline and getPassword point at the interactive input
// helpers and are swapped in tests.
var (
	getSimpleText = GetSimpleText
	getMultiline  = GetMultiline
	getPassword   = GetPassword
)

// Register prompts for the account fields and creates the account. It does
// not sign in.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	description, err := getMultiline(a.reader, "Tell something about yourself (optional)", a.out)
	if err != nil {
		return err
	}

	resp, err := a.client.Register(ctx, userName, email, password, description)
	if err != nil {
		return err
	}

	printNotices(a.out, resp.Notices)
	fmt.Fprintf(a.out, "Registered %s (id %d), you can login now\n", resp.User.Username, resp.User.ID)
	return nil
}

// Login prompts for credentials, signs in and remembers the session locally.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.setUser(resp.User.Username)
	a.setMode(ModeOnline)

	sess := &state.Session{Username: resp.User.Username, AccessToken: resp.AccessToken, ExpiresAt: resp.ExpiresAt}
	if err := a.store.Save(ctx, sess); err != nil {
		fmt.Fprintf(a.out, "Warning: session will not survive a restart: %v\n", err)
	}

	printNotices(a.out, resp.Notices)
	return nil
}

// Logout ends the server session and forgets the local one. The local session
// is dropped even if the server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	resp, err := a.client.Logout(ctx)

	a.setUser("")
	if clearErr := a.store.Clear(ctx); clearErr != nil && err == nil {
		err = clearErr
	}
	if err != nil {
		return err
	}

	printNotices(a.out, resp.Notices)
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	me, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	printUser(a.out, me)
	return nil
}

// Describe replaces the signed-in user's description.
func (a *App) Describe(ctx context.Context) error {
	description, err := getMultiline(a.reader, "Enter new description", a.out)
	if err != nil {
		return err
	}

	resp, err := a.client.UpdateDescription(ctx, description)
	if err != nil {
		return err
	}
	printNotices(a.out, resp.Notices)
	return nil
}

// Passwd changes the password; all three values are read without echo.
func (a *App) Passwd(ctx context.Context) error {
	oldPassword, err := getPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := getPassword(a.out, "New password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)

	confirm, err := getPassword(a.out, "Repeat new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	resp, err := a.client.ChangePassword(ctx, oldPassword, newPassword, confirm)
	if err != nil {
		return err
	}
	printNotices(a.out, resp.Notices)
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	if err := a.client.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return err
	}
	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, "Server is up")
	return nil
}
