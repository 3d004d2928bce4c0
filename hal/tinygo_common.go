//go:build tinygo && baremetal

package hal

import (
	"io"
	"machine"
)

type uartWriter struct {
	uart *machine.UART
}

// SerialWriter configures UART0 on GP0 (TX) / GP1 (RX), 115200 8N1, and
// returns it as a writer that terminates lines with CRLF.
func SerialWriter() io.Writer {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	return &uartWriter{uart: uart}
}

func (w *uartWriter) Write(b []byte) (int, error) {
	for _, c := range b {
		if c == '\n' {
			w.uart.WriteByte('\r')
		}
		w.uart.WriteByte(c)
	}
	return len(b), nil
}
