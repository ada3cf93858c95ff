package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/shravanasati/eventware/request"
)

// printRequests dumps every request read off conn until it closes.
func printRequests(conn net.Conn) {
	br := bufio.NewReader(conn)
	for {
		req, err := request.RequestFromReader(br)
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			fmt.Println("unable to parse request:", err)
			return
		}

		fmt.Println("Request line:")
		fmt.Printf("- Method: %s\n", req.Method)
		fmt.Printf("- Target: %s\n", req.Target)
		fmt.Printf("- Version: %s\n", req.HTTPVersion)
		fmt.Println("Headers:")
		for k, v := range req.Headers.All() {
			fmt.Printf("- %s: %s\n", k, v)
		}
		fmt.Printf("Query: %v\n", req.Query)
		fmt.Println("Body:")
		fmt.Println(string(req.RawBody))
		if req.BodyError != nil {
			fmt.Println("(body is not JSON)")
		}
	}
}

func main() {
	listener, err := net.Listen("tcp", ":42069")
	if err != nil {
		panic(err)
	}
	fmt.Println("listening for connections")

	defer listener.Close()
	for {
		conn, err := listener.Accept()
		if err != nil {
			panic(err)
		}
		fmt.Println("a connection has been accepted", conn.RemoteAddr().String())
		printRequests(conn)
		conn.Close()
		fmt.Println("a connection has been closed")
	}
}
