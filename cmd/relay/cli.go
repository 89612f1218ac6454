package main

import (
	"bufio"
	"chat-relay/domain/chat"
	"chat-relay/internal"
	"chat-relay/repositories"
	"chat-relay/services"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// CLI is the interactive front end. It is a thin layer over the chat service:
// every command maps onto one service operation.
type CLI struct {
	log    *slog.Logger
	chat   services.IChatService
	config internal.Config
}

func NewCLI(log *slog.Logger, chat services.IChatService, config internal.Config) *CLI {
	return &CLI{log: log, chat: chat, config: config}
}

func (c *CLI) Run(ctx context.Context) {
	color.Green.Printf("\nWelcome to the chat, %s!\n", c.config.UserName)
	fmt.Printf("Your ID: %s\n", c.config.UserID)
	c.printHelp()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Printf("\n[%s] ", c.config.UserName)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Printf("[%s] ", c.config.UserName)
			continue
		}

		parts := strings.SplitN(line, " ", 3)
		command := strings.ToLower(parts[0])

		switch {
		case command == "send" && len(parts) >= 3:
			c.send(ctx, parts[1], parts[2])
		case command == "broadcast" && len(parts) >= 2:
			c.send(ctx, chat.BroadcastReceiver, strings.Join(parts[1:], " "))
		case command == "history":
			limit := c.config.HistoryLimit
			if len(parts) > 1 {
				if parsed, err := strconv.Atoi(parts[1]); err == nil {
					limit = parsed
				}
			}
			c.history(limit)
		case command == "search" && len(parts) >= 2:
			c.search(ctx, strings.Join(parts[1:], " "))
		case command == "typing" && len(parts) >= 2:
			c.typing(ctx, parts[1])
		case command == "help":
			c.printHelp()
		case command == "quit":
			fmt.Println("Goodbye!")
			return
		default:
			color.Red.Println("Invalid command. Type 'help' for available commands.")
		}
		fmt.Printf("\n[%s] ", c.config.UserName)
	}
}

func (c *CLI) send(ctx context.Context, receiverID, content string) {
	if _, err := c.chat.SendMessage(ctx, chat.SendMessageCommand{
		ReceiverID: receiverID,
		Content:    content,
	}); err != nil {
		color.Red.Printf("Error: %v\n", err)
	}
}

func (c *CLI) history(limit int) {
	rows, err := c.chat.GetHistory(chat.GetHistoryCommand{Limit: limit})
	if err != nil {
		color.Red.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("\nLast %d messages:\n", len(rows))
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Time", "From", "To", "Status", "Content"})
	table.AppendBulk(lo.Map(rows, func(row repositories.MessageWithStatus, _ int) []string {
		return []string{
			row.Message.CreatedAt.Local().Format(time.TimeOnly),
			row.Message.SenderName,
			row.Message.ReceiverID,
			string(row.Current),
			row.Message.Content,
		}
	}))
	table.Render()
}

func (c *CLI) search(ctx context.Context, term string) {
	hits, err := c.chat.SearchMessages(ctx, chat.SearchCommand{Term: term, Limit: c.config.HistoryLimit})
	if err != nil {
		color.Red.Printf("Error: %v\n", err)
		return
	}
	if len(hits) == 0 {
		fmt.Println("No matching messages.")
		return
	}
	for _, hit := range hits {
		fmt.Printf("%s | %s: %s\n", hit.MessageID, hit.SenderID, hit.Content)
	}
}

// typing sends the indicator and schedules the automatic stop, mirroring the
// receipt mechanism: an independent timer, never canceled.
func (c *CLI) typing(ctx context.Context, receiverID string) {
	if err := c.chat.SendTyping(ctx, chat.SendTypingCommand{ReceiverID: receiverID, IsTyping: true}); err != nil {
		color.Red.Printf("Error: %v\n", err)
		return
	}
	time.AfterFunc(c.config.TypingDuration, func() {
		if err := c.chat.SendTyping(ctx, chat.SendTypingCommand{ReceiverID: receiverID, IsTyping: false}); err != nil {
			c.log.Debug("Failed to send typing stop", "error", err)
		}
	})
}

func (c *CLI) printHelp() {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("CHAT COMMANDS")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("send <user_id> <message>  - Send message to user")
	fmt.Println("broadcast <message>       - Send message to all users")
	fmt.Println("history [limit]           - Show message history")
	fmt.Println("search <term>             - Search messages by content")
	fmt.Println("typing <user_id>          - Send typing indicator")
	fmt.Println("help                      - Show this help")
	fmt.Println("quit                      - Exit chat")
	fmt.Println(strings.Repeat("=", 50))
}
