//go:build pcap
// +build pcap

package source

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"github.com/banshee-data/scanview/internal/scan"
)

// ReplayPCAPFile replays CBOR scan datagrams from a capture file, invoking the
// handler once per message in capture order. Only UDP packets on udpPort are
// considered. This function is only available when building with the 'pcap'
// build tag.
func ReplayPCAPFile(ctx context.Context, pcapFile string, udpPort int, handler Handler) error {
	handle, err := pcap.OpenOffline(pcapFile)
	if err != nil {
		return fmt.Errorf("failed to open PCAP file %s: %w", pcapFile, err)
	}
	defer handle.Close()

	filterStr := fmt.Sprintf("udp port %d", udpPort)
	if err := handle.SetBPFFilter(filterStr); err != nil {
		return fmt.Errorf("failed to set BPF filter %q: %w", filterStr, err)
	}
	log.Printf("PCAP BPF filter set: %s", filterStr)

	packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
	packetCount := 0
	scanCount := 0
	startTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			log.Printf("PCAP replay stopping due to context cancellation (processed %d packets)", packetCount)
			return ctx.Err()
		case packet := <-packetSource.Packets():
			if packet == nil {
				elapsed := time.Since(startTime)
				log.Printf("PCAP replay complete: %d scans from %d packets in %v", scanCount, packetCount, elapsed)
				return nil
			}
			packetCount++

			udpLayer := packet.Layer(layers.LayerTypeUDP)
			if udpLayer == nil {
				continue
			}
			udp, ok := udpLayer.(*layers.UDP)
			if !ok || len(udp.Payload) == 0 {
				continue
			}

			msg, err := scan.Decode(udp.Payload)
			if err != nil {
				log.Printf("Skipping malformed scan message in capture: %v", err)
				continue
			}
			scanCount++
			handler(msg)
		}
	}
}
