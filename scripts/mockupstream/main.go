// Mockupstream is a stand-in chat-completion server for running the service
// locally without spending tokens. Point upstream.base_url at it.
//
// Usage:
//
//	go run ./scripts/mockupstream -port 18080 -mode ok
//	UPSTREAM_BASE_URL=http://localhost:18080/v1/ OPENAI_API_KEY=dummy go run ./cmd
//
// Modes: ok (valid strategy), invalid (non-JSON content), error (HTTP 500),
// unauthorized (HTTP 401 when the bearer token is not -key).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

const sampleStrategy = `{
  "overview": "地域に根ざした日常使いの一軒としてのポジションを取りにいく。",
  "targetInsight": "近隣で働く会社員。平日のランチに小さなご褒美を求めている。",
  "strength": "・手仕込みの看板メニュー\n・駅から徒歩3分\n・一人でも入りやすいカウンター",
  "coreMessage": "いつもの一皿を、いちばん丁寧に。",
  "objective": "短期: 認知拡大\n中期: 常連化\n長期: 地域の定番",
  "contentStrategy": "仕込み風景で信頼を、看板メニューで来店動機を、スタッフ紹介で親近感をつくる。",
  "visualGuide": "暖色寄り、自然光、寄りの構図で湯気やシズル感を残す。"
}`

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func main() {
	port := flag.Int("port", 18080, "port to listen on")
	mode := flag.String("mode", "ok", "response mode: ok, invalid, error, unauthorized")
	key := flag.String("key", "dummy", "accepted bearer token in unauthorized mode")
	delay := flag.Duration("delay", 0, "artificial latency per completion")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		var req chatRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_error", "could not parse request body")
			return
		}
		log.Info("completion requested",
			slog.String("model", req.Model),
			slog.Int("messages", len(req.Messages)),
			slog.String("mode", *mode))

		if *delay > 0 {
			time.Sleep(*delay)
		}

		switch *mode {
		case "error":
			writeError(w, http.StatusInternalServerError, "server_error", "The server had an error while processing your request.")
		case "unauthorized":
			if strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ") != *key {
				writeError(w, http.StatusUnauthorized, "invalid_request_error", "Incorrect API key provided.")
				return
			}
			writeCompletion(w, req.Model, sampleStrategy)
		case "invalid":
			writeCompletion(w, req.Model, "申し訳ありませんが、JSONでは出力できません。")
		default:
			writeCompletion(w, req.Model, sampleStrategy)
		}
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Info("starting mock upstream", slog.String("addr", addr), slog.String("mode", *mode))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("server failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func writeCompletion(w http.ResponseWriter, model, content string) {
	resp := map[string]any{
		"id":      "chatcmpl-" + uuid.NewString(),
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
	b, _ := json.Marshal(resp)
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	b, _ := json.Marshal(map[string]any{
		"error": map[string]any{"message": message, "type": errType},
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)
}
