// Command petchat is a terminal chat with the desk pet, talking straight to
// the configured OpenAI-compatible upstream.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rpay/deskpet/internal/config"
	"github.com/rpay/deskpet/internal/upstream/openaicompat"
)

var (
	petStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	replyStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("212")).
			Padding(0, 1)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

func main() {
	logger := log.New(os.Stderr, "[petchat] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.UpstreamAPIKey == "" {
		logger.Fatalf("UPSTREAM_API_KEY is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := newSession(openaicompat.NewClient(), cfg.UpstreamURL, cfg.UpstreamAPIKey, cfg.ChatModel)

	fmt.Println(petStyle.Render("🐾 DeskPet") + " " + hintStyle.Render("/reset clears the chat, /quit exits"))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return
		case "/reset":
			s.reset()
			fmt.Println(hintStyle.Render("(history cleared)"))
			continue
		}

		reply, err := s.send(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			fmt.Println(errStyle.Render(err.Error()))
			continue
		}
		fmt.Println(replyStyle.Render(reply))
	}
	if err := scanner.Err(); err != nil {
		logger.Printf("read input: %v", err)
	}
}
