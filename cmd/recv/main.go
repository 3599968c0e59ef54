package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/omochice/zmqlink/pkg/endpoint"
)

func main() {
	// Parse command-line flags
	addr := flag.String("addr", "tcp://127.0.0.1:5555", "Endpoint to bind")
	mode := flag.String("mode", "PULL", "Socket mode (e.g. PULL, SUB, PAIR)")
	count := flag.Int("count", 0, "Exit after this many messages (0 = run forever)")
	timeout := flag.Duration("timeout", 0, "Per-message receive timeout (0 = block forever)")
	flag.Parse()

	m, err := endpoint.ModeFromString(*mode)
	if err != nil {
		log.Fatalf("Invalid mode: %v", err)
	}

	conn, err := endpoint.Listen(*addr, m)
	if err != nil {
		log.Fatalf("Failed to bind %s: %v", *addr, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("Failed to close connection: %v", err)
		}
	}()

	log.Printf("Listening on %s", *addr)

	want := endpoint.Forever
	if *timeout > 0 {
		want = *timeout
	}

	for received := 0; *count == 0 || received < *count; {
		first, ok, err := conn.RecvTimeout(want, 0)
		if err != nil {
			log.Fatalf("Failed to receive: %v", err)
		}
		if !ok {
			log.Printf("No message within %v", *timeout)
			continue
		}
		parts := [][]byte{first.Data}
		if first.More {
			rest, err := conn.RecvAll(0)
			if err != nil {
				log.Fatalf("Failed to receive: %v", err)
			}
			parts = append(parts, rest...)
		}
		for i, part := range parts {
			fmt.Printf("[%s] part %d/%d: %s\n",
				time.Now().Format(time.TimeOnly), i+1, len(parts), part)
		}
		received++
	}
}
