package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

type Config struct {
	BaseURL string `json:"base_url"`
	Token   string `json:"token"`
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".makeapi")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "cli_config.json"), nil
}

func loadConfig() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func saveConfig(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

var rootCmd = &cobra.Command{
	Use:   "makeapi",
	Short: "MakeAPI CLI",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ---- Login ----

func cmdLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password")
	baseURL := fs.String("base-url", "http://localhost:3000", "MakeAPI base URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" || *password == "" {
		return fmt.Errorf("email and password are required")
	}

	body, err := json.Marshal(map[string]string{
		"email":    *email,
		"password": *password,
	})
	if err != nil {
		return err
	}

	resp, err := http.Post(strings.TrimRight(*baseURL, "/")+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login failed: %s", strings.TrimSpace(string(msg)))
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if out.Token == "" {
		return fmt.Errorf("no token received")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.BaseURL = strings.TrimRight(*baseURL, "/")
	cfg.Token = out.Token
	if err := saveConfig(cfg); err != nil {
		return err
	}

	fmt.Println("Logged in successfully")
	return nil
}

func requireAuthConfig() (*Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.BaseURL == "" || cfg.Token == "" {
		return nil, fmt.Errorf("not logged in; run `makeapi login` first")
	}
	return cfg, nil
}

func doRequest(cfg *Config, method, path string, body io.Reader) (*http.Response, error) {
	url := strings.TrimRight(cfg.BaseURL, "/") + path
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.Token)
	}
	return http.DefaultClient.Do(req)
}

func decodeOrFail(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ---- Endpoints ----

func cmdEndpoints(args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: makeapi endpoints [list|get|create|delete]")
		return nil
	}

	switch args[0] {
	case "list":
		return endpointsList()
	case "get":
		return endpointsGet(args[1:])
	case "create":
		return endpointsCreate(args[1:])
	case "delete":
		return endpointsDelete(args[1:])
	default:
		fmt.Println("Usage: makeapi endpoints [list|get|create|delete]")
		return nil
	}
}

func endpointsList() error {
	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	resp, err := doRequest(cfg, http.MethodGet, "/endpoint", nil)
	if err != nil {
		return err
	}

	var endpoints []struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		CreatedAt string `json:"createdAt"`
	}
	if err := decodeOrFail(resp, &endpoints); err != nil {
		return err
	}

	if len(endpoints) == 0 {
		fmt.Println("No endpoints found. Create one with `makeapi endpoints create`.")
		return nil
	}

	fmt.Println("Endpoints:")
	for _, e := range endpoints {
		fmt.Printf("  %s\n    ID: %s\n    Created: %s\n", e.Title, e.ID, e.CreatedAt)
	}
	return nil
}

func endpointsGet(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: makeapi endpoints get <id>")
	}
	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	resp, err := doRequest(cfg, http.MethodGet, "/endpoint/"+args[0], nil)
	if err != nil {
		return err
	}

	var out map[string]any
	if err := decodeOrFail(resp, &out); err != nil {
		return err
	}
	return printJSON(out)
}

func endpointsCreate(args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	file := fs.String("file", "", "Path to a JSON file with the endpoint definition")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("usage: makeapi endpoints create --file <definition.json>")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return err
	}

	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	resp, err := doRequest(cfg, http.MethodPost, "/endpoint", bytes.NewReader(data))
	if err != nil {
		return err
	}

	var out map[string]any
	if err := decodeOrFail(resp, &out); err != nil {
		return err
	}
	fmt.Println("Endpoint created:")
	return printJSON(out)
}

func endpointsDelete(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: makeapi endpoints delete <id>")
	}
	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	resp, err := doRequest(cfg, http.MethodDelete, "/endpoint/"+args[0], nil)
	if err != nil {
		return err
	}
	if err := decodeOrFail(resp, nil); err != nil {
		return err
	}
	fmt.Println("Endpoint deleted")
	return nil
}

// ---- Items ----

func cmdItems(args []string) error {
	if len(args) == 0 {
		fmt.Println("Usage: makeapi items [list|query]")
		return nil
	}

	switch args[0] {
	case "list":
		return itemsList(args[1:])
	case "query":
		return itemsQuery(args[1:])
	default:
		fmt.Println("Usage: makeapi items [list|query]")
		return nil
	}
}

func itemsList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	endpointID := fs.String("endpoint", "", "Endpoint id to filter by")
	page := fs.Int("page", 0, "Page number (1-based)")
	limit := fs.Int("limit", 0, "Page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	path := "/itens"
	params := []string{}
	if *endpointID != "" {
		params = append(params, "endpointId="+*endpointID)
	}
	if *page > 0 {
		params = append(params, fmt.Sprintf("page=%d", *page))
	}
	if *limit > 0 {
		params = append(params, fmt.Sprintf("limit=%d", *limit))
	}
	if len(params) > 0 {
		path += "?" + strings.Join(params, "&")
	}

	resp, err := doRequest(cfg, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	var items []map[string]any
	if err := decodeOrFail(resp, &items); err != nil {
		return err
	}
	return printJSON(items)
}

func itemsQuery(args []string) error {
	fs := flag.NewFlagSet("query", flag.ExitOnError)
	file := fs.String("file", "", "Path to a JSON file with the filter request")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("usage: makeapi items query --file <filters.json>")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		return err
	}

	cfg, err := requireAuthConfig()
	if err != nil {
		return err
	}

	resp, err := doRequest(cfg, http.MethodPost, "/itens/query", bytes.NewReader(data))
	if err != nil {
		return err
	}

	var items []map[string]any
	if err := decodeOrFail(resp, &items); err != nil {
		return err
	}
	return printJSON(items)
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// ---- Cobra command wiring ----

func init() {
	loginCmd := &cobra.Command{
		Use:                "login",
		Short:              "Login to a MakeAPI server",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdLogin(args)
		},
	}

	endpointsCmd := &cobra.Command{
		Use:                "endpoints",
		Short:              "Manage endpoint schemas",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdEndpoints(args)
		},
	}

	itemsCmd := &cobra.Command{
		Use:                "items",
		Short:              "List and query items",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdItems(args)
		},
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireAuthConfig()
			if err != nil {
				return err
			}

			resp, err := doRequest(cfg, http.MethodGet, "/auth/me", nil)
			if err != nil {
				return err
			}

			var user struct {
				ID       string `json:"id"`
				Username string `json:"username"`
				Email    string `json:"email"`
			}
			if err := decodeOrFail(resp, &user); err != nil {
				return err
			}

			fmt.Println("Current user:")
			fmt.Printf("  ID:       %s\n", user.ID)
			fmt.Printf("  Username: %s\n", user.Username)
			fmt.Printf("  Email:    %s\n", user.Email)
			return nil
		},
	}

	rootCmd.AddCommand(loginCmd, endpointsCmd, itemsCmd, whoamiCmd)
}
