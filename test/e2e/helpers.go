//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/api/handlers"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/catalog"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/openai"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/repository"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/server"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/service"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
)

// E2E runs against real Postgres with pgvector but a scripted language
// model, so assertions stay deterministic and no API key is needed.

const embeddingDimensions = 1536

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	BinaryDir    string
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with a database container
// and a running server.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, pool, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// BuildBinaries builds the commerce client binary for CLI tests.
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "commerce-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, "commerce"), "./cmd/commerce")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build commerce: %v\n%s", err, out)
	}
}

// RunCommerce runs the commerce CLI against the test server.
func (e *E2ETestEnv) RunCommerce(args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "commerce"), args...)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("COMMERCE_API_URL=%s", e.ServerURL),
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// Get performs a GET request and returns the status code and raw body.
func (e *E2ETestEnv) Get(path string) (int, []byte, error) {
	return e.doRequest("GET", path, nil)
}

// Post performs a POST request and returns the status code and raw body.
func (e *E2ETestEnv) Post(path string, body interface{}) (int, []byte, error) {
	return e.doRequest("POST", path, body)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}) (int, []byte, error) {
	url := e.ServerURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, respBody, nil
}

// SSEFrame is one parsed server-sent event payload.
type SSEFrame struct {
	Type      string          `json:"type"`
	Content   string          `json:"content,omitempty"`
	Products  json.RawMessage `json:"products,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
}

// PostSSE performs a streaming POST and parses every data frame.
func (e *E2ETestEnv) PostSSE(path string, body interface{}) ([]SSEFrame, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", e.ServerURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, respBody)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var frames []SSEFrame
	for _, line := range strings.Split(string(raw), "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var frame SSEFrame
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &frame); err != nil {
			return nil, fmt.Errorf("bad frame %q: %w", line, err)
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

// startServer wires the full stack against the test database with a
// scripted language model and starts an HTTP server.
func startServer(t *testing.T, pool *pgxpool.Pool, port int) (string, func()) {
	embeddingRepo := repository.NewEmbeddingRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)

	llm := &scriptedLLM{}

	embedder := service.NewEmbedder(llm, embeddingRepo, service.NewProductCache())
	retriever := service.NewRetriever(llm, embeddingRepo)
	intent := service.NewIntentClassifier(llm)
	assistant := service.NewAssistant(llm, 10)
	ledger := service.NewLedger(sessionRepo, analyticsRepo)
	// Hashed bag-of-words embeddings score lower on cosine similarity than
	// a real model, so the threshold is relaxed here.
	chatSvc := service.NewChatService(embedder, retriever, intent, assistant, ledger, 5, 0.1)
	insights := service.NewInsightsGenerator(llm)

	cfg := server.RouterConfig{
		ChatHandler:      handlers.NewChatHandler(chatSvc),
		InitHandler:      handlers.NewInitHandler(embedder, catalog.NewFixtureSource()),
		SessionHandler:   handlers.NewSessionHandler(chatSvc),
		AnalyticsHandler: handlers.NewAnalyticsHandler(analyticsRepo),
		InsightsHandler:  handlers.NewInsightsHandler(analyticsRepo, insights),
	}

	router := server.NewRouter(cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

const scriptedReply = "You'd love the **Acme Hoodie** at **55.00 USD**! Warm fleece for cold days. 🧥"

const scriptedInsightsJSON = `{
  "hotProducts": ["Hoodies"],
  "trendingCategories": ["Winter Clothing"],
  "customerIntent": ["Looking for warm apparel"],
  "recommendations": ["Stock more hoodies"],
  "summary": "Customers are mostly after warm apparel."
}`

// scriptedLLM stands in for the language model. Embeddings are hashed
// bag-of-words vectors, so texts sharing terms land near each other in
// vector space; completions are canned.
type scriptedLLM struct{}

func (s *scriptedLLM) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return wordVector(text), nil
}

func (s *scriptedLLM) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = wordVector(t)
	}
	return out, nil
}

func (s *scriptedLLM) Complete(ctx context.Context, messages []openai.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages")
	}
	if strings.Contains(messages[0].Content, "intent classifier") {
		last := strings.ToLower(messages[len(messages)-1].Content)
		for _, kw := range []string{"show", "find", "buy", "need", "want", "recommend", "hoodie", "shirt"} {
			if strings.Contains(last, kw) {
				return "true", nil
			}
		}
		return "false", nil
	}
	if strings.Contains(messages[0].Content, "data analyst") {
		return scriptedInsightsJSON, nil
	}
	return scriptedReply, nil
}

func (s *scriptedLLM) CompleteStream(ctx context.Context, messages []openai.Message) (openai.TokenStream, error) {
	reply, err := s.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}
	return &scriptedStream{tokens: strings.SplitAfter(reply, " ")}, nil
}

type scriptedStream struct {
	tokens []string
	idx    int
}

func (s *scriptedStream) Recv() (string, error) {
	if s.idx >= len(s.tokens) {
		return "", io.EOF
	}
	tok := s.tokens[s.idx]
	s.idx++
	return tok, nil
}

func (s *scriptedStream) Close() error { return nil }

// wordVector hashes each lowercase word into a fixed slot and normalizes,
// approximating semantic similarity by term overlap.
func wordVector(text string) []float32 {
	vec := make([]float32, embeddingDimensions)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?:;\"'()")
		if word == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%embeddingDimensions]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
