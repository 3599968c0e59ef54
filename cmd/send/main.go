package main

import (
	"flag"
	"log"

	"github.com/omochice/zmqlink/pkg/endpoint"
)

func main() {
	// Parse command-line flags
	addr := flag.String("addr", "tcp://127.0.0.1:5555", "Endpoint to connect to")
	mode := flag.String("mode", "PUSH", "Socket mode (e.g. PUSH, PUB, PAIR)")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("Nothing to send. Pass the message parts as arguments")
	}

	m, err := endpoint.ModeFromString(*mode)
	if err != nil {
		log.Fatalf("Invalid mode: %v", err)
	}

	conn, err := endpoint.Connect(*addr, m)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", *addr, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Printf("Failed to close connection: %v", err)
		}
	}()

	parts := make([][]byte, 0, flag.NArg())
	for _, arg := range flag.Args() {
		parts = append(parts, []byte(arg))
	}

	if err := conn.SendParts(parts...); err != nil {
		log.Fatalf("Failed to send: %v", err)
	}
	log.Printf("Sent %d part(s) to %s", len(parts), *addr)
}
