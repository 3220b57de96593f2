// ABOUTME: Admin CLI for the telegate whitelist and manual sends
// ABOUTME: Talks to the HTTP API with bearer token authentication

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	server := getEnv("TELEGATE_SERVER", "http://localhost:8080")
	token := getToken()

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "login":
		err = cmdLogin(server, args)
	case "list":
		err = cmdList(server, token)
	case "add":
		err = cmdAdd(server, token, args)
	case "del":
		err = cmdDel(server, token, args)
	case "send":
		err = cmdSend(server, token, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: telegate-admin <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login <username>         Log in and store a session token")
	fmt.Println("  list                     List whitelisted numbers")
	fmt.Println("  add <phone>              Add a number to the whitelist")
	fmt.Println("  del <phone>              Remove a number from the whitelist")
	fmt.Println("  send <phone> <message>   Send a message to a registered number")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  TELEGATE_SERVER  Server base URL (default http://localhost:8080)")
	fmt.Println("  TELEGATE_TOKEN   Session token (overrides the stored one)")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func configDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "."
		}
		dir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(dir, "telegate")
}

// getToken returns the session token from TELEGATE_TOKEN or the stored
// token file written by login.
func getToken() string {
	if token := os.Getenv("TELEGATE_TOKEN"); token != "" {
		return token
	}

	data, err := os.ReadFile(filepath.Join(configDir(), "token"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// call performs one authenticated JSON request and decodes the response.
// Non-2xx responses are returned as errors carrying the server's error kind.
func call(method, rawURL, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, rawURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			if apiErr.Detail != "" {
				return fmt.Errorf("%s: %s", apiErr.Error, apiErr.Detail)
			}
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func cmdLogin(server string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: telegate-admin login <username>")
	}
	username := args[0]

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	var result struct {
		OK    bool   `json:"ok"`
		Token string `json:"token"`
	}
	err = call(http.MethodPost, server+"/api/auth/login", "", map[string]string{
		"username": username,
		"password": string(passwordBytes),
	}, &result)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir(), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	tokenPath := filepath.Join(configDir(), "token")
	if err := os.WriteFile(tokenPath, []byte(result.Token), 0600); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	color.Green("✓ Logged in, token stored at %s", tokenPath)
	return nil
}

func cmdList(server, token string) error {
	var result struct {
		Items []struct {
			Phone     string `json:"phone"`
			CreatedAt string `json:"created_at"`
		} `json:"items"`
	}
	if err := call(http.MethodGet, server+"/api/numbers", token, nil, &result); err != nil {
		return err
	}

	if len(result.Items) == 0 {
		fmt.Println("No numbers yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PHONE\tADDED")
	for _, item := range result.Items {
		fmt.Fprintf(w, "%s\t%s\n", item.Phone, item.CreatedAt)
	}
	return w.Flush()
}

func cmdAdd(server, token string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: telegate-admin add <phone>")
	}

	var result struct {
		Phone string `json:"phone"`
	}
	err := call(http.MethodPost, server+"/api/numbers", token,
		map[string]string{"phone": strings.Join(args, " ")}, &result)
	if err != nil {
		return err
	}

	color.Green("✓ Added %s", result.Phone)
	return nil
}

func cmdDel(server, token string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: telegate-admin del <phone>")
	}

	err := call(http.MethodDelete,
		server+"/api/numbers/"+url.PathEscape(args[0]), token, nil, nil)
	if err != nil {
		return err
	}

	color.Green("✓ Removed %s", args[0])
	return nil
}

func cmdSend(server, token string, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: telegate-admin send <phone> <message>")
	}

	err := call(http.MethodPost, server+"/api/send", token, map[string]string{
		"phone":   args[0],
		"message": strings.Join(args[1:], " "),
	}, nil)
	if err != nil {
		return err
	}

	color.Green("✓ Sent")
	return nil
}
