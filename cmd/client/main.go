package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"chordstab/internal/rpcx"

	"github.com/peterh/liner"
)

// dial opens a gRPC connection to addr and wraps it in a DHTClient.
func dial(addr string) (*grpc.ClientConn, *rpcx.DHTClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	return conn, rpcx.NewDHTClient(conn), nil
}

func main() {
	addr := flag.String("addr", "127.0.0.1:4000", "address of a DHT node to connect to")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	conn, api, err := dial(*addr)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", *addr, err)
	}
	currentAddr := *addr
	fmt.Printf("connected to %s\n", currentAddr)
	fmt.Println("commands: id | pred | succlist | lookup <hex-id> | ping | use <addr> | exit")

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt(fmt.Sprintf("chordstab[%s]> ", currentAddr))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println("aborted")
				continue
			}
			break
		}
		line.AppendHistory(input)

		args := strings.Fields(strings.TrimSpace(input))
		if len(args) == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		switch args[0] {

		case "id":
			resp, err := api.Identify(ctx, &rpcx.Empty{})
			if err != nil {
				fmt.Printf("id failed: %v\n", err)
			} else {
				fmt.Printf("self: %x (%s)\n", resp.Self.ID, resp.Self.Addr)
			}

		case "pred":
			resp, err := api.GetPredecessor(ctx, &rpcx.Empty{})
			if err != nil {
				fmt.Printf("pred failed: %v\n", err)
			} else if !resp.Present {
				fmt.Println("predecessor: none")
			} else {
				fmt.Printf("predecessor: %x (%s)\n", resp.Node.ID, resp.Node.Addr)
			}

		case "succlist":
			resp, err := api.GetSuccessorList(ctx, &rpcx.Empty{})
			if err != nil {
				fmt.Printf("succlist failed: %v\n", err)
			} else {
				for i, n := range resp.Nodes {
					fmt.Printf("  [%d] %x (%s)\n", i, n.ID, n.Addr)
				}
			}

		case "lookup":
			if len(args) < 2 {
				fmt.Println("usage: lookup <hex-id>")
				break
			}
			id, err := hex.DecodeString(args[1])
			if err != nil {
				fmt.Printf("invalid hex id: %v\n", err)
				break
			}
			resp, err := api.FindSuccessor(ctx, &rpcx.FindSuccessorRequest{ID: id})
			if err != nil {
				fmt.Printf("lookup failed: %v\n", err)
			} else if !resp.Present {
				fmt.Println("lookup: no successor found")
			} else {
				fmt.Printf("successor: %x (%s)\n", resp.Node.ID, resp.Node.Addr)
			}

		case "ping":
			start := time.Now()
			_, err := api.Ping(ctx, &rpcx.Empty{})
			if err != nil {
				fmt.Printf("ping failed: %v\n", err)
			} else {
				fmt.Printf("pong in %s\n", time.Since(start))
			}

		case "use":
			if len(args) < 2 {
				fmt.Println("usage: use <addr>")
				break
			}
			newConn, newAPI, err := dial(args[1])
			if err != nil {
				fmt.Printf("failed to connect to %s: %v\n", args[1], err)
				break
			}
			conn.Close()
			conn, api = newConn, newAPI
			currentAddr = args[1]
			fmt.Printf("switched to %s\n", currentAddr)

		case "exit", "quit":
			fmt.Println("bye")
			cancel()
			conn.Close()
			return

		default:
			fmt.Printf("unknown command: %s\n", args[0])
		}
		cancel()
	}
	conn.Close()
}
