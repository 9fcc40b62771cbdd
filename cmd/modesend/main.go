// modesend toggles a one-byte value on the mode port, for exercising
// receivers without running the tracker.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"time"
)

func main() {
	var (
		addr     = flag.String("addr", "127.0.0.1:50001", "destination address")
		interval = flag.Duration("interval", 2*time.Second, "time between sends")
		on       = flag.Uint("on", 1, "first byte value")
		off      = flag.Uint("off", 0, "second byte value")
	)
	flag.Parse()

	udpAddr, err := net.ResolveUDPAddr("udp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "modesend: %v\n", err)
		os.Exit(1)
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "modesend: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	fmt.Printf("sending %d/%d to %s every %s\n", *on, *off, *addr, *interval)

	values := []byte{byte(*on), byte(*off)}
	for i := 0; ; i++ {
		v := values[i%2]
		if _, err := conn.Write([]byte{v}); err != nil {
			fmt.Fprintf(os.Stderr, "modesend: send failed: %v\n", err)
		} else {
			fmt.Printf("%s  sent %d\n", time.Now().Format("15:04:05"), v)
		}
		time.Sleep(*interval)
	}
}
