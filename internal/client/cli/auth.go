package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/smartlearn/internal/common"
	"github.com/dmitrijs2005/smartlearn/internal/protocol"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account details and attempts to create a new
// account. Validation verdicts come back from the server; they are shown to
// the user and do not count as errors here.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	email, err := getSimpleText(a.reader, "Enter email (optional)", os.Stdout)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone (optional)", os.Stdout)
	if err != nil {
		return err
	}
	grade, err := getSimpleText(a.reader, "Enter grade (optional)", os.Stdout)
	if err != nil {
		return err
	}
	major, err := getSimpleText(a.reader, "Enter major (optional)", os.Stdout)
	if err != nil {
		return err
	}

	resp, err := a.authService.Register(ctx, &protocol.RegisterRequest{
		Username: userName,
		Password: string(password),
		Email:    email,
		Phone:    phone,
		Grade:    grade,
		Major:    major,
	})
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if resp.ErrorCode != protocol.RegisterSuccess {
		fmt.Printf("Registration failed: %s\n", resp.Message)
		return nil
	}

	fmt.Println("Success! You can log in now.")
	return nil
}

// Login prompts for credentials and tries to authenticate. On success the
// user name is remembered for the session prompt.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ok, err := a.authService.Login(ctx, userName, password)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	if !ok {
		fmt.Println("Login failed: wrong username or password.")
		return nil
	}

	a.userName = userName
	fmt.Println("Success!")
	return nil
}

// Logout forgets the session user.
func (a *App) Logout(ctx context.Context) error {
	a.userName = ""
	fmt.Println("Logged out.")
	return nil
}
