package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"travelhub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type tokenData struct {
	Token string `json:"token"`
}

type authResponse struct {
	Token string `json:"token"`
}

type postListResponse struct {
	Type  string        `json:"type"`
	Total int           `json:"total"`
	Items []models.Post `json:"items"`
}

type typeListResponse struct {
	Types []models.ContentType `json:"types"`
}

type refListResponse struct {
	Refs []models.PostRef `json:"refs"`
}

func main() {
	global := flag.NewFlagSet("travelhub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	tokenPath := global.String("token", defaultTokenPath(), "token file path")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "types":
		handleTypes(ctx, client, *baseURL)
	case "posts":
		handlePosts(ctx, client, *baseURL, sub)
	case "post":
		handlePost(ctx, client, *baseURL, sub, args[2:])
	case "latest":
		handleLatest(ctx, client, *baseURL)
	case "refs":
		handleRefs(ctx, client, *baseURL, sub)
	case "auth":
		handleAuth(ctx, client, *baseURL, *tokenPath, sub, args[2:])
	case "refresh":
		handleRefresh(ctx, client, *baseURL, *tokenPath)
	case "watch":
		handleWatch(*baseURL)
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleTypes(ctx context.Context, client *http.Client, baseURL string) {
	var resp typeListResponse
	if err := doJSON(ctx, client, http.MethodGet, baseURL+"/types", "", nil, &resp); err != nil {
		log.Fatalf("list types: %v", err)
	}
	for _, ct := range resp.Types {
		fmt.Printf("%-12s %-14s %s\n", ct.Key, ct.Label, ct.ListPath)
	}
}

func handlePosts(ctx context.Context, client *http.Client, baseURL, typeKey string) {
	if typeKey == "" {
		log.Fatal("usage: posts <type>")
	}

	var resp postListResponse
	if err := doJSON(ctx, client, http.MethodGet, baseURL+"/posts/"+url.PathEscape(typeKey), "", nil, &resp); err != nil {
		log.Fatalf("list posts: %v", err)
	}

	fmt.Printf("%d %s posts\n", resp.Total, resp.Type)
	for _, p := range resp.Items {
		fmt.Printf("%-6s %-24s %s\n", p.ID, p.Date, p.Title)
	}
}

func handlePost(ctx context.Context, client *http.Client, baseURL, typeKey string, args []string) {
	var endpoint string
	switch {
	case typeKey != "" && len(args) > 0:
		endpoint = baseURL + "/posts/" + url.PathEscape(typeKey) + "/" + url.PathEscape(args[0])
	case typeKey != "":
		// single arg: treat it as an id and search every type
		endpoint = baseURL + "/post/" + url.PathEscape(typeKey)
	default:
		log.Fatal("usage: post <type> <id>  or  post <id>")
	}

	var post models.Post
	if err := doJSON(ctx, client, http.MethodGet, endpoint, "", nil, &post); err != nil {
		log.Fatalf("get post: %v", err)
	}
	printPost(post)
}

func handleLatest(ctx context.Context, client *http.Client, baseURL string) {
	var post models.Post
	if err := doJSON(ctx, client, http.MethodGet, baseURL+"/latest", "", nil, &post); err != nil {
		log.Fatalf("get latest: %v", err)
	}
	printPost(post)
}

func handleRefs(ctx context.Context, client *http.Client, baseURL, typeKey string) {
	endpoint := baseURL + "/refs"
	if typeKey != "" {
		endpoint += "/" + url.PathEscape(typeKey)
	}

	var resp refListResponse
	if err := doJSON(ctx, client, http.MethodGet, endpoint, "", nil, &resp); err != nil {
		log.Fatalf("list refs: %v", err)
	}
	for _, ref := range resp.Refs {
		fmt.Printf("%-12s %s\n", ref.TypeKey, ref.ID)
	}
}

func handleAuth(ctx context.Context, client *http.Client, baseURL, tokenPath, sub string, args []string) {
	switch sub {
	case "login":
		fs := flag.NewFlagSet("auth login", flag.ExitOnError)
		username := fs.String("username", "", "editor username")
		password := fs.String("password", "", "editor password")
		_ = fs.Parse(args)

		if *username == "" || *password == "" {
			log.Fatal("username and password are required")
		}

		payload := map[string]string{"username": *username, "password": *password}
		var resp authResponse
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/auth/login", "", payload, &resp); err != nil {
			log.Fatalf("login failed: %v", err)
		}
		if err := saveToken(tokenPath, resp.Token); err != nil {
			log.Fatalf("save token: %v", err)
		}
		fmt.Println("✅ logged in")
	case "logout":
		if err := os.Remove(tokenPath); err != nil && !os.IsNotExist(err) {
			log.Fatalf("remove token: %v", err)
		}
		fmt.Println("logged out")
	default:
		log.Fatal("usage: auth login|logout")
	}
}

func handleRefresh(ctx context.Context, client *http.Client, baseURL, tokenPath string) {
	token, err := loadToken(tokenPath)
	if err != nil {
		log.Fatalf("load token (run 'auth login' first): %v", err)
	}

	var resp struct {
		Status string          `json:"status"`
		Latest *models.PostRef `json:"latest"`
	}
	if err := doJSON(ctx, client, http.MethodPost, baseURL+"/admin/refresh", token, nil, &resp); err != nil {
		log.Fatalf("refresh failed: %v", err)
	}

	if resp.Latest != nil {
		fmt.Printf("✅ refreshed, latest: %s/%s\n", resp.Latest.TypeKey, resp.Latest.ID)
	} else {
		fmt.Println("✅ refreshed, no posts upstream")
	}
}

func handleWatch(baseURL string) {
	wsURL := strings.Replace(baseURL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial %s: %v", wsURL, err)
	}
	defer conn.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		_ = conn.Close()
		os.Exit(0)
	}()

	log.Printf("watching %s for content events", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read: %v", err)
		}
		fmt.Print(string(msg))
	}
}

func printPost(p models.Post) {
	fmt.Printf("%s (%s)\n", p.Title, p.TypeLabel)
	fmt.Printf("  id:    %s\n", p.ID)
	fmt.Printf("  date:  %s\n", p.Date)
	if p.Link != "" {
		fmt.Printf("  link:  %s\n", p.Link)
	}
	if p.HeroImage != "" {
		fmt.Printf("  image: %s\n", p.HeroImage)
	}
	if p.Excerpt != "" {
		fmt.Printf("  excerpt: %s\n", p.Excerpt)
	}
	for k, v := range p.Fields {
		if v != "" {
			fmt.Printf("  %s: %s\n", k, v)
		}
	}
}

// doJSON performs one JSON request/response round trip. A non-2xx status
// is reported with the response body for context.
func doJSON(ctx context.Context, client *http.Client, method, endpoint, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".travelhub", "token.json")
}

func saveToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.Marshal(tokenData{Token: token})
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

func loadToken(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var td tokenData
	if err := json.Unmarshal(b, &td); err != nil {
		return "", err
	}
	if td.Token == "" {
		return "", fmt.Errorf("empty token in %s", path)
	}
	return td.Token, nil
}

func printUsage() {
	fmt.Println(`travelhub CLI

usage:
  travelhub [-api URL] [-token PATH] <command>

commands:
  types                 list declared content types
  posts <type>          list posts of one type, newest first
  post <type> <id>      show one post
  post <id>             find a post by id across all types
  latest                show the newest post across all types
  refs [type]           list post identifiers (for route generation)
  auth login|logout     editor login (stores token)
  refresh               trigger a content refresh broadcast (needs login)
  watch                 stream content events over WebSocket`)
}
