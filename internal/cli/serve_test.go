package cli

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/cloudshop/uisuite/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHandler creates a simple test handler
func mockHandler(response string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(response))
	})
}

// MockSessionStore accepts exactly one token
type MockSessionStore struct {
	Token string
}

func (m *MockSessionStore) Login(email, password string) (string, error) { return m.Token, nil }
func (m *MockSessionStore) Authenticated(token string) bool { return token != "" && token == m.Token }
func (m *MockSessionStore) Logout(token string) {}

// createTestDeps creates ServerDependencies with mock handlers for testing
func createTestDeps(port string) ServerDependencies {
	return ServerDependencies{
		ServerConfig:   config.ServerConfig{Port: port},
		Sessions:       &MockSessionStore{Token: "token-123"},
		LoginHandler:   mockHandler("login"),
		LogoutHandler:  mockHandler("logout"),
		CatalogHandler: mockHandler("catalog"),
		SaveHandler:    mockHandler("save"),
		DeleteHandler:  mockHandler("delete"),
		TrashHandler:   mockHandler("trash"),
		APIHandler:     mockHandler("api"),
		StaticHandler:  mockHandler("static"),
	}
}

// startTestServer starts a server with the given dependencies and returns listener, server, and port
func startTestServer(t *testing.T, deps ServerDependencies) (net.Listener, *http.Server, int) {
	t.Helper()
	listener, server, err := StartServer(deps)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	return listener, server, port
}

// httpGet makes an HTTP GET request and returns response body and status
func httpGet(t *testing.T, url string) (string, int) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("Failed to make request to %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return string(body), resp.StatusCode
}

func TestStartServer_SuccessfulStartup(t *testing.T) {
	// GIVEN
	deps := createTestDeps("0")

	// WHEN
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()
	defer server.Close()

	// THEN
	if port == 0 {
		t.Error("Expected non-zero port")
	}

	time.Sleep(50 * time.Millisecond)
	body, status := httpGet(t, fmt.Sprintf("http://localhost:%d%s", port, config.LoginPath))

	if status != http.StatusOK {
		t.Errorf("Expected status 200, got %d", status)
	}
	if body != "login" {
		t.Errorf("Expected 'login', got '%s'", body)
	}
}

func TestStartServer_InvalidPort(t *testing.T) {
	// GIVEN
	deps := createTestDeps("99999") // Invalid port

	// WHEN
	listener, server, err := StartServer(deps)

	// THEN
	if err == nil {
		listener.Close()
		server.Close()
		t.Error("Expected error for invalid port, got nil")
	}
}

func TestStartServer_PortAlreadyInUse(t *testing.T) {
	// GIVEN
	existingListener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to create test listener: %v", err)
	}
	defer existingListener.Close()

	port := existingListener.Addr().(*net.TCPAddr).Port
	deps := createTestDeps(fmt.Sprintf("%d", port))

	// WHEN
	listener, server, err := StartServer(deps)

	// THEN
	if err == nil {
		listener.Close()
		server.Close()
		t.Error("Expected error for port already in use, got nil")
	}
}

func TestRoutes(t *testing.T) {
	// GIVEN
	routes := Routes(createTestDeps("0"))

	testCases := []struct {
		path             string
		token            string
		expectedStatus   int
		expectedBody     string
		expectedLocation string
	}{
		{path: config.LoginPath, expectedStatus: http.StatusOK, expectedBody: "login"},
		{path: "/anonymous/logout/", expectedStatus: http.StatusOK, expectedBody: "logout"},
		{path: "/api/products", token: "token-123", expectedStatus: http.StatusOK, expectedBody: "api"},
		{path: "/api/products", expectedStatus: http.StatusSeeOther, expectedLocation: config.LoginPath},
		{path: "/static/cloudshop.css", expectedStatus: http.StatusOK, expectedBody: "static"},
		{path: config.CatalogPath, token: "token-123", expectedStatus: http.StatusOK, expectedBody: "catalog"},
		{path: config.CreatePath, token: "token-123", expectedStatus: http.StatusOK, expectedBody: "catalog"},
		{path: "/card/catalog/save", token: "token-123", expectedStatus: http.StatusOK, expectedBody: "save"},
		{path: "/card/catalog/delete", token: "token-123", expectedStatus: http.StatusOK, expectedBody: "delete"},
		{path: config.TrashPath, token: "token-123", expectedStatus: http.StatusOK, expectedBody: "trash"},
		{path: config.CatalogPath, expectedStatus: http.StatusSeeOther, expectedLocation: config.LoginPath},
		{path: config.TrashPath, token: "stale", expectedStatus: http.StatusSeeOther, expectedLocation: config.LoginPath},
		{path: "/", expectedStatus: http.StatusFound, expectedLocation: config.CatalogPath},
	}

	for _, tc := range testCases {
		t.Run(tc.path+" "+tc.token, func(t *testing.T) {
			// WHEN
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.AddCookie(&http.Cookie{Name: "cs_session", Value: tc.token})
			}
			rr := httptest.NewRecorder()
			routes.ServeHTTP(rr, req)

			// THEN
			if rr.Code != tc.expectedStatus {
				t.Errorf("Expected status %d, got %d", tc.expectedStatus, rr.Code)
			}
			if tc.expectedBody != "" && rr.Body.String() != tc.expectedBody {
				t.Errorf("Expected '%s', got '%s'", tc.expectedBody, rr.Body.String())
			}
			if location := rr.Header().Get("Location"); location != tc.expectedLocation {
				t.Errorf("Expected location '%s', got '%s'", tc.expectedLocation, location)
			}
		})
	}
}

func TestSandbox_LoginCreateDeleteFlow(t *testing.T) {
	// GIVEN
	deps, err := NewSandboxDependencies(config.ServerConfig{Port: "0", Email: "qa@example.com", Password: "s3cret"})
	require.NoError(t, err)
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()
	defer server.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}
	base := fmt.Sprintf("http://localhost:%d", port)

	// WHEN
	resp, err := client.PostForm(base+config.LoginPath, url.Values{"email": {"qa@example.com"}, "password": {"s3cret"}})
	require.NoError(t, err)
	resp.Body.Close()

	// THEN
	assert.Equal(t, config.CatalogPath, resp.Request.URL.Path, "login lands on the catalog")

	resp, err = client.PostForm(base+"/card/catalog/save", url.Values{"name": {"Test Item"}, "price": {"1000"}})
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "Test Item")

	cards := deps.Store.List("Test Item")
	require.Len(t, cards, 1)

	resp, err = client.PostForm(base+"/card/catalog/delete", url.Values{"ids": {cards[0].ID}})
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.Get(base + config.TrashPath)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, strings.Contains(string(body), "Test Item"), "deleted product is in the trash")
	assert.Empty(t, deps.Store.List(""))
}

func TestSandbox_APIRequiresSession(t *testing.T) {
	// GIVEN
	deps, err := NewSandboxDependencies(config.ServerConfig{Port: "0", Email: "qa@example.com", Password: "s3cret"})
	require.NoError(t, err)
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()
	defer server.Close()
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}

	// WHEN
	resp, err := client.Post(fmt.Sprintf("http://localhost:%d/api/products", port), "application/json", strings.NewReader(`{"name":"Чужой"}`))
	require.NoError(t, err)
	resp.Body.Close()

	// THEN
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("Expected status %d, got %d", http.StatusSeeOther, resp.StatusCode)
	}
	assert.Equal(t, config.LoginPath, resp.Header.Get("Location"))
	assert.Empty(t, deps.Store.List(""), "nothing may be written without a session")
}

func TestSandbox_RejectedLogin(t *testing.T) {
	// GIVEN
	deps, err := NewSandboxDependencies(config.ServerConfig{Port: "0", Email: "qa@example.com", Password: "s3cret"})
	require.NoError(t, err)
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()
	defer server.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	// WHEN
	resp, err := client.PostForm(fmt.Sprintf("http://localhost:%d%s", port, config.LoginPath), url.Values{"email": {"qa@example.com"}, "password": {"wrong"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	// THEN
	assert.Equal(t, config.LoginPath, resp.Request.URL.Path)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Неверный email или пароль")
}

func TestStartServer_GracefulShutdown(t *testing.T) {
	// GIVEN
	deps := createTestDeps("0")

	// WHEN
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()

	time.Sleep(50 * time.Millisecond)
	_, status := httpGet(t, fmt.Sprintf("http://localhost:%d%s", port, config.LoginPath))
	if status != http.StatusOK {
		t.Fatal("Server not responding")
	}

	// THEN
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		t.Errorf("Failed to shutdown server gracefully: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	_, getErr := http.Get(fmt.Sprintf("http://localhost:%d%s", port, config.LoginPath))
	if getErr == nil {
		t.Error("Expected error after shutdown, server still responding")
	}
}

func TestStartServer_ConcurrentServers(t *testing.T) {
	// GIVEN
	deps1 := createTestDeps("0")
	deps1.LoginHandler = mockHandler("server1")

	deps2 := createTestDeps("0")
	deps2.LoginHandler = mockHandler("server2")

	// WHEN
	listener1, server1, port1 := startTestServer(t, deps1)
	defer listener1.Close()
	defer server1.Close()

	listener2, server2, port2 := startTestServer(t, deps2)
	defer listener2.Close()
	defer server2.Close()

	// THEN
	if port1 == port2 {
		t.Error("Both servers got the same port")
	}

	time.Sleep(50 * time.Millisecond)
	if body, _ := httpGet(t, fmt.Sprintf("http://localhost:%d%s", port1, config.LoginPath)); body != "server1" {
		t.Errorf("Server 1 returned wrong response: %s", body)
	}
	if body, _ := httpGet(t, fmt.Sprintf("http://localhost:%d%s", port2, config.LoginPath)); body != "server2" {
		t.Errorf("Server 2 returned wrong response: %s", body)
	}
}

func TestWaitForShutdown_Signals(t *testing.T) {
	for _, sig := range []os.Signal{syscall.SIGTERM, syscall.SIGINT} {
		t.Run(sig.String(), func(t *testing.T) {
			// GIVEN
			listener, server, _ := startTestServer(t, createTestDeps("0"))
			defer listener.Close()

			shutdown := make(chan os.Signal, 1)

			// WHEN
			errCh := make(chan error, 1)
			go func() {
				errCh <- WaitForShutdown(server, shutdown)
			}()

			time.Sleep(50 * time.Millisecond)
			shutdown <- sig

			// THEN
			select {
			case err := <-errCh:
				if err != nil {
					t.Errorf("Expected nil error, got: %v", err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("WaitForShutdown did not complete")
			}
		})
	}
}

func TestWaitForShutdown_WithActiveRequests(t *testing.T) {
	// GIVEN
	deps := createTestDeps("0")
	deps.LoginHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte("done"))
	})

	listener, server, port := startTestServer(t, deps)
	defer listener.Close()

	time.Sleep(50 * time.Millisecond)
	requestComplete := make(chan bool, 1)
	go func() {
		resp, err := http.Get(fmt.Sprintf("http://localhost:%d%s", port, config.LoginPath))
		if err == nil {
			resp.Body.Close()
		}
		requestComplete <- true
	}()

	time.Sleep(50 * time.Millisecond)
	shutdown := make(chan os.Signal, 1)

	// WHEN
	errCh := make(chan error, 1)
	go func() {
		errCh <- WaitForShutdown(server, shutdown)
	}()
	shutdown <- syscall.SIGTERM

	// THEN
	select {
	case <-requestComplete:
	case <-time.After(2 * time.Second):
		t.Error("Request did not complete in time")
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Expected nil error, got: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WaitForShutdown did not complete")
	}
}

func TestWaitForShutdownWithTimeout_ForcesClose(t *testing.T) {
	// GIVEN
	release := make(chan struct{})
	deps := createTestDeps("0")
	deps.LoginHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	})

	listener, server, port := startTestServer(t, deps)
	defer listener.Close()
	defer close(release)

	time.Sleep(50 * time.Millisecond)
	go func() {
		resp, err := http.Get(fmt.Sprintf("http://localhost:%d%s", port, config.LoginPath))
		if err == nil {
			resp.Body.Close()
		}
	}()
	time.Sleep(50 * time.Millisecond)

	shutdown := make(chan os.Signal, 1)
	shutdown <- syscall.SIGTERM

	// WHEN
	start := time.Now()
	err := WaitForShutdownWithTimeout(server, shutdown, 100*time.Millisecond)

	// THEN
	if err != nil {
		t.Errorf("Expected nil error, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Expected forced close after the timeout, took %v", elapsed)
	}
}

func TestRunServe_FullIntegration(t *testing.T) {
	// GIVEN
	deps, err := NewSandboxDependencies(config.ServerConfig{Port: "0", Email: config.DefaultSandboxEmail, Password: config.DefaultSandboxPassword})
	require.NoError(t, err)

	// WHEN
	errCh := make(chan error, 1)
	go func() {
		errCh <- RunServe(deps)
	}()

	time.Sleep(100 * time.Millisecond)

	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatalf("Failed to get process: %v", err)
	}
	if err := p.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("Failed to send signal: %v", err)
	}

	// THEN
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Expected nil error, got: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Server did not shut down within timeout")
	}
}

func TestRunServe_StartupFailure(t *testing.T) {
	// GIVEN
	deps := createTestDeps("99999") // Invalid port

	// WHEN
	err := RunServe(deps)

	// THEN
	if err == nil {
		t.Error("Expected error for invalid port, got nil")
	}
}

// BenchmarkStartServer benchmarks server startup
func BenchmarkStartServer(b *testing.B) {
	deps := createTestDeps("0")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		listener, server, err := StartServer(deps)
		if err != nil {
			b.Fatalf("Failed to start server: %v", err)
		}
		server.Close()
		listener.Close()
	}
}
