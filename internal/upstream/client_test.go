package upstream_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/brand-strategist/internal/brand"
	"github.com/angeloszaimis/brand-strategist/internal/upstream"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	Temperature float64 `json:"temperature"`
}

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   upstream.Model,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(body)
}

var _ = Describe("OpenAIClient", func() {
	var (
		server   *httptest.Server
		client   *upstream.OpenAIClient
		calls    atomic.Int32
		received chatRequest
		authz    string
		path     string
		respond  func(w http.ResponseWriter)
		prompt   brand.Prompt
	)

	BeforeEach(func() {
		calls.Store(0)
		received = chatRequest{}
		prompt = brand.Prompt{System: "system text", User: "user text"}
		respond = func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, completionBody(`{"overview":"x"}`))
		}

		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			authz = r.Header.Get("Authorization")
			path = r.URL.Path
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &received)
			respond(w)
		}))

		client = upstream.NewOpenAIClient(server.URL+"/v1/", server.Client())
	})

	AfterEach(func() {
		server.Close()
	})

	It("should send the fixed model, both messages and temperature", func() {
		_, err := client.Complete(context.Background(), "sk-test", prompt)
		Expect(err).NotTo(HaveOccurred())

		Expect(path).To(Equal("/v1/chat/completions"))
		Expect(authz).To(Equal("Bearer sk-test"))
		Expect(received.Model).To(Equal("gpt-4.1-mini"))
		Expect(received.Temperature).To(BeNumerically("~", 0.7, 1e-9))
		Expect(received.Messages).To(HaveLen(2))
		Expect(received.Messages[0].Role).To(Equal("system"))
		Expect(received.Messages[0].Content).To(Equal("system text"))
		Expect(received.Messages[1].Role).To(Equal("user"))
		Expect(received.Messages[1].Content).To(Equal("user text"))
	})

	It("should return the trimmed first choice content", func() {
		respond = func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, completionBody("\n  {\"overview\":\"x\"}  \n"))
		}

		content, err := client.Complete(context.Background(), "sk-test", prompt)
		Expect(err).NotTo(HaveOccurred())
		Expect(content).To(Equal(`{"overview":"x"}`))
	})

	It("should return empty content when there are no choices", func() {
		respond = func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"id":"chatcmpl-test","object":"chat.completion","choices":[]}`)
		}

		content, err := client.Complete(context.Background(), "sk-test", prompt)
		Expect(err).NotTo(HaveOccurred())
		Expect(content).To(BeEmpty())
	})

	It("should surface a non-success status with the raw body and not retry", func() {
		respond = func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"error":{"message":"boom"}}`)
		}

		_, err := client.Complete(context.Background(), "sk-test", prompt)

		var statusErr *upstream.StatusError
		Expect(err).To(BeAssignableToTypeOf(statusErr))
		statusErr = err.(*upstream.StatusError)
		Expect(statusErr.StatusCode).To(Equal(http.StatusInternalServerError))
		Expect(statusErr.Body).To(Equal(`{"error":{"message":"boom"}}`))
		Expect(calls.Load()).To(Equal(int32(1)))
	})

	It("should keep a plain-text error body verbatim", func() {
		respond = func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, "invalid key")
		}

		_, err := client.Complete(context.Background(), "sk-bad", prompt)
		Expect(err).To(HaveOccurred())
		statusErr, ok := err.(*upstream.StatusError)
		Expect(ok).To(BeTrue())
		Expect(statusErr.StatusCode).To(Equal(http.StatusUnauthorized))
		Expect(statusErr.Body).To(Equal("invalid key"))
	})

	It("should return a plain error when the success body is not JSON", func() {
		respond = func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, "<html>gateway</html>")
		}

		_, err := client.Complete(context.Background(), "sk-test", prompt)
		Expect(err).To(HaveOccurred())
		_, isStatus := err.(*upstream.StatusError)
		Expect(isStatus).To(BeFalse())
	})

	It("should return a plain error when the upstream is unreachable", func() {
		server.Close()

		_, err := client.Complete(context.Background(), "sk-test", prompt)
		Expect(err).To(HaveOccurred())
		_, isStatus := err.(*upstream.StatusError)
		Expect(isStatus).To(BeFalse())
	})
})
