// Command haquests drives the raw-socket HTTP engine directly from the
// shell: plain GETs over the hand-rolled TCP/TLS stack, or one of the
// three HTTP Request Smuggling payload shapes against a target URL.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/bioadapter"
	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/herrors"
	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/httpresp"
	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/rawsock"
	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/smuggling"
	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/tcpconn"
	"github.com/lirlia/100day_challenge_backend/day69_haquests/internal/pkg/tlssession"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

var (
	targetURL    = flag.String("url", "", "target URL, e.g. http://127.0.0.1:8080/ or https://example.com/")
	smuggledPath = flag.String("smuggled", "", "path to a file containing the raw smuggled request (required for clte/tecl/tete)")
	mode         = flag.String("mode", "get", "one of: get, clte, tecl, tete")
	insecure     = flag.Bool("insecure", false, "skip TLS certificate verification")
	timeout      = flag.Duration("timeout", 10*time.Second, "timeout for DNS resolution and the TLS handshake (raw TCP I/O uses the engine's fixed deadlines)")
)

var pauseLayers map[string]bool

func init() {
	pauseLayers = make(map[string]bool)
	if v := os.Getenv("PAUSE_LAYER"); v != "" {
		for _, layer := range strings.Split(v, ",") {
			pauseLayers[strings.TrimSpace(strings.ToLower(layer))] = true
		}
	}
}

func pauseIfNeeded(layer string) {
	if pauseLayers[strings.ToLower(layer)] {
		fmt.Printf("\n--- [%s] press Enter to continue ---\n", strings.ToUpper(layer))
		bufio.NewReader(os.Stdin).ReadBytes('\n')
	}
}

func main() {
	flag.Parse()

	if !rawsock.HasCapabilities() {
		log.Fatal("this engine requires CAP_NET_RAW (or root) to open a raw TCP socket")
	}

	if *targetURL == "" {
		log.Fatal("-url is required")
	}
	u, err := url.Parse(*targetURL)
	if err != nil {
		log.Fatalf("invalid -url: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var reqBytes []byte
	switch *mode {
	case "get":
		reqBytes = buildGET(u)
	case "clte", "tecl", "tete":
		if *smuggledPath == "" {
			log.Fatalf("-smuggled is required in mode %q", *mode)
		}
		smuggledBody, err := os.ReadFile(*smuggledPath)
		if err != nil {
			log.Fatalf("reading -smuggled file: %v", err)
		}
		reqBytes = buildSmuggled(*mode, u, smuggledBody)
	default:
		log.Fatalf("unknown -mode %q: choose get, clte, tecl, or tete", *mode)
	}

	resp, err := do(ctx, u, reqBytes)
	if err != nil {
		log.Fatal(err)
	}

	log.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"version": resp.Version,
	}).Info("response received")
	os.Stdout.Write(resp.Body)
	fmt.Println()
	os.Exit(0)
}

func buildGET(u *url.URL) []byte {
	path := u.RequestURI()
	if path == "" {
		path = "/"
	}
	return []byte(fmt.Sprintf("GET %s HTTP/1.1\r\nHost: %s\r\nConnection: close\r\n\r\n", path, u.Hostname()))
}

func buildSmuggled(mode string, u *url.URL, smuggled []byte) []byte {
	path := u.RequestURI()
	if path == "" {
		path = "/"
	}
	switch mode {
	case "clte":
		return smuggling.BuildCLTE(path, smuggled).Bytes()
	case "tecl":
		return smuggling.BuildTECL(path, smuggled).Bytes()
	default: // tete
		return smuggling.BuildTETE(path, smuggled).Bytes()
	}
}

func do(ctx context.Context, u *url.URL, reqBytes []byte) (*httpresp.Response, error) {
	port := u.Port()
	useTLS := u.Scheme == "https"
	if port == "" {
		if useTLS {
			port = "443"
		} else {
			port = "80"
		}
	}
	portNum, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return nil, herrors.New(herrors.KindResolution, "cmd.do", fmt.Errorf("invalid port %q", port))
	}

	log.Infof("connecting to %s:%d over raw TCP...", u.Hostname(), portNum)
	conn := tcpconn.New()
	if err := conn.Connect(ctx, u.Hostname(), uint16(portNum)); err != nil {
		return nil, fmt.Errorf("handshake failed: %w", err)
	}
	defer conn.Close()
	log.Infof("handshake complete, state=%s", conn.State())
	pauseIfNeeded("tcp")

	var raw []byte
	if useTLS {
		log.Infof("starting TLS handshake (SNI=%s)...", u.Hostname())
		sess, err := tlssession.Handshake(ctx, conn, u.Hostname(), !*insecure, nil)
		if err != nil {
			return nil, fmt.Errorf("TLS handshake failed: %w", err)
		}
		defer sess.Close()
		log.Infof("TLS established: %s %s", sess.NegotiatedVersion(), sess.CipherSuite())
		pauseIfNeeded("tls")

		if _, err := sess.Send(reqBytes); err != nil {
			return nil, fmt.Errorf("sending request: %w", err)
		}
		raw, err = readAll(func(p []byte) (int, error) { return sess.Receive(p) })
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}
	} else {
		if _, err := conn.Send(reqBytes); err != nil {
			return nil, fmt.Errorf("sending request: %w", err)
		}
		bio := bioadapter.New(conn)
		raw, err = readAll(func(p []byte) (int, error) { return bio.Read(p) })
		if err != nil {
			return nil, fmt.Errorf("reading response: %w", err)
		}
	}
	pauseIfNeeded("http")

	resp, err := httpresp.Parse(raw)
	if err != nil && err != httpresp.ErrIncomplete {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if err == httpresp.ErrIncomplete {
		return nil, fmt.Errorf("response incomplete: only %d bytes received", len(raw))
	}
	return resp, nil
}

// readAll drains read until a zero-byte result follows an already
// non-empty accumulation, or a small idle-attempt cap is hit with nothing
// accumulated yet. A zero-byte, no-error result (the bioadapter's soft
// retry signal on a transient timeout, or TLS's analogue) just means "try
// again" — this command is a one-shot request/response, not a persistent
// client, so each underlying Receive call already waits out the engine's
// own fixed deadline internally.
func readAll(read func([]byte) (int, error)) ([]byte, error) {
	var out []byte
	buf := make([]byte, 4096)
	for idle := 0; idle < 3; idle++ {
		n, _ := read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
			idle = -1
			continue
		}
		if len(out) > 0 {
			break
		}
	}
	return out, nil
}
