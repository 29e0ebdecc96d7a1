// Command tinydash-cli talks to a running device over its HTTP API: no
// telnet, no console password, matching the dashboard's unauthenticated
// local-network HTTP surface.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

func main() {
	host := flag.String("host", "", "Device IP address or hostname (required)")
	timeout := flag.Duration("timeout", defaultTimeout, "Request timeout")
	flag.Parse()

	args := flag.Args()
	if *host == "" {
		if len(args) > 0 {
			*host = args[0]
			args = args[1:]
		} else {
			printUsage()
			os.Exit(1)
		}
	}
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	c := &client{base: "http://" + *host, hc: &http.Client{Timeout: *timeout}}
	cmd := args[0]
	rest := args[1:]

	var err error
	switch cmd {
	case "status":
		err = c.status()
	case "metrics":
		err = c.metrics()
	case "config":
		err = c.config(rest)
	case "restart":
		err = c.restart()
	case "logs":
		err = c.logs(rest)
	case "files":
		err = c.files(rest)
	case "ota-status":
		err = c.otaStatus()
	case "ota-push":
		if len(rest) != 1 {
			err = fmt.Errorf("usage: ota-push <firmware.bin>")
		} else {
			err = c.otaPush(rest[0])
		}
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("tinydash-cli")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tinydash-cli <host> <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  status                       Device identity, heap, uptime")
	fmt.Println("  metrics                      Current sensor/system metrics")
	fmt.Println("  config get                   Print the redacted config")
	fmt.Println("  config set <field> <value>   PATCH a single config field")
	fmt.Println("  restart                      Request a reboot")
	fmt.Println("  logs [count]                 Recent log lines (default 50)")
	fmt.Println("  files list                   List stored files")
	fmt.Println("  files get <name>             Print a file's contents")
	fmt.Println("  files put <name> <path>      Upload a local file's contents")
	fmt.Println("  files rm <name>              Delete a stored file")
	fmt.Println("  ota-status                   Current OTA session status")
	fmt.Println("  ota-push <firmware.bin>      Upload and apply a firmware image")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  tinydash-cli 172.18.1.136 status")
	fmt.Println("  tinydash-cli 172.18.1.136 config set theme dark")
	fmt.Println("  tinydash-cli 172.18.1.136 ota-push build/tinydash.bin")
}

type client struct {
	base string
	hc   *http.Client
}

func (c *client) get(path string) ([]byte, error) {
	resp, err := c.hc.Get(c.base + path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s: %s", resp.Status, string(body))
	}
	return body, nil
}

func (c *client) do(method, path, contentType string, body io.Reader, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequest(method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s: %s", resp.Status, string(respBody))
	}
	return respBody, nil
}

func printJSON(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return nil
	}
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))
	return nil
}

func (c *client) status() error {
	raw, err := c.get("/api/system")
	if err != nil {
		return err
	}
	return printJSON(raw)
}

func (c *client) metrics() error {
	raw, err := c.get("/api/metrics")
	if err != nil {
		return err
	}
	return printJSON(raw)
}

func (c *client) config(args []string) error {
	if len(args) == 0 || args[0] == "get" {
		raw, err := c.get("/api/config")
		if err != nil {
			return err
		}
		return printJSON(raw)
	}
	if args[0] == "set" {
		if len(args) != 3 {
			return fmt.Errorf("usage: config set <field> <value>")
		}
		field, value := args[1], args[2]
		path := "/api/v1/config/" + url.PathEscape(field)
		raw, err := c.do("PATCH", path, "text/plain", strings.NewReader(value), nil)
		if err != nil {
			return err
		}
		return printJSON(raw)
	}
	return fmt.Errorf("usage: config get | config set <field> <value>")
}

func (c *client) restart() error {
	raw, err := c.do("POST", "/api/restart", "", nil, nil)
	if err != nil {
		return err
	}
	return printJSON(raw)
}

func (c *client) logs(args []string) error {
	count := 50
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count %q", args[0])
		}
		count = n
	}
	raw, err := c.get(fmt.Sprintf("/api/logs/recent?count=%d", count))
	if err != nil {
		return err
	}
	var entries []struct {
		Timestamp int64  `json:"timestamp"`
		Level     string `json:"level"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return printJSON(raw)
	}
	for _, e := range entries {
		ts := time.Unix(e.Timestamp, 0).Format(time.RFC3339)
		fmt.Printf("%s [%s] %s\n", ts, e.Level, e.Message)
	}
	return nil
}

func (c *client) files(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: files list | get <name> | put <name> <path> | rm <name>")
	}
	switch args[0] {
	case "list":
		raw, err := c.get("/api/files")
		if err != nil {
			return err
		}
		return printJSON(raw)
	case "get":
		if len(args) != 2 {
			return fmt.Errorf("usage: files get <name>")
		}
		raw, err := c.get("/api/files/content?file=" + url.QueryEscape(args[1]))
		if err != nil {
			return err
		}
		fmt.Println(string(raw))
		return nil
	case "put":
		if len(args) != 3 {
			return fmt.Errorf("usage: files put <name> <path>")
		}
		content, err := os.ReadFile(args[2])
		if err != nil {
			return fmt.Errorf("read local file: %w", err)
		}
		path := "/api/files/content?file=" + url.QueryEscape(args[1])
		var body strings.Builder
		enc := json.NewEncoder(&body)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(map[string]string{"content": string(content)}); err != nil {
			return err
		}
		_, err = c.do("PUT", path, "application/json", strings.NewReader(body.String()), nil)
		if err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	case "rm":
		if len(args) != 2 {
			return fmt.Errorf("usage: files rm <name>")
		}
		path := "/api/files?file=" + url.QueryEscape(args[1])
		_, err := c.do("DELETE", path, "", nil, nil)
		if err != nil {
			return err
		}
		fmt.Println("ok")
		return nil
	}
	return fmt.Errorf("unknown files subcommand %q", args[0])
}

func (c *client) otaStatus() error {
	raw, err := c.get("/api/ota/status")
	if err != nil {
		return err
	}
	return printJSON(raw)
}

func (c *client) otaPush(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read firmware: %w", err)
	}
	sum := sha256.Sum256(data)
	hashHex := hex.EncodeToString(sum[:])

	fmt.Printf("Uploading %s (%d bytes, sha256 %s)...\n", path, len(data), hashHex)
	_, err = c.do("POST", "/ota/update", "application/octet-stream", strings.NewReader(string(data)), map[string]string{
		"X-Firmware-SHA256": hashHex,
	})
	if err != nil {
		return err
	}
	fmt.Println("Update accepted, device is rebooting.")
	return nil
}
