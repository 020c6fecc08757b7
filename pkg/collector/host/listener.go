// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package host

import (
	"errors"
	"io/fs"
	"net"
	"sort"
	"strconv"

	"github.com/prometheus/procfs"

	"github.com/NVIDIA/scanwatch/pkg/payload"
)

// Kernel socket states from include/net/tcp_states.h.
const (
	tcpListen  = 0x0A
	udpUnconnd = 0x07
)

const unknownProcess = "unknown"

type socketTable struct {
	protocol string
	listen   uint64
	read     func(procfs.FS) ([]socketLine, error)
}

// socketLine is the subset of a /proc/net row used for listeners.
type socketLine struct {
	localAddr net.IP
	localPort uint64
	remPort   uint64
	state     uint64
	inode     uint64
}

var socketTables = []socketTable{
	{protocol: "tcp", listen: tcpListen, read: func(p procfs.FS) ([]socketLine, error) { return tcpLines(p.NetTCP()) }},
	{protocol: "tcp", listen: tcpListen, read: func(p procfs.FS) ([]socketLine, error) { return tcpLines(p.NetTCP6()) }},
	{protocol: "udp", listen: udpUnconnd, read: func(p procfs.FS) ([]socketLine, error) { return udpLines(p.NetUDP()) }},
	{protocol: "udp", listen: udpUnconnd, read: func(p procfs.FS) ([]socketLine, error) { return udpLines(p.NetUDP6()) }},
}

func tcpLines(table procfs.NetTCP, err error) ([]socketLine, error) {
	if err != nil {
		return nil, err
	}
	out := make([]socketLine, 0, len(table))
	for _, row := range table {
		out = append(out, socketLine{localAddr: row.LocalAddr, localPort: row.LocalPort, remPort: row.RemPort, state: row.St, inode: row.Inode})
	}
	return out, nil
}

func udpLines(table procfs.NetUDP, err error) ([]socketLine, error) {
	if err != nil {
		return nil, err
	}
	out := make([]socketLine, 0, len(table))
	for _, row := range table {
		out = append(out, socketLine{localAddr: row.LocalAddr, localPort: row.LocalPort, remPort: row.RemPort, state: row.St, inode: row.Inode})
	}
	return out, nil
}

// collectListeners reads listening TCP sockets and unconnected UDP sockets.
// Missing tables (no IPv6) are skipped. Owners come from the fd scan.
func (c *Collector) collectListeners(pfs procfs.FS, owners map[uint64]socketOwner) ([]payload.Listener, error) {
	listeners := make([]payload.Listener, 0)
	seen := make(map[string]struct{})
	var errs []error

	for _, table := range socketTables {
		rows, err := table.read(pfs)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, row := range rows {
			if row.state != table.listen || row.remPort != 0 || row.localPort == 0 {
				continue
			}
			l := payload.Listener{
				Protocol:     table.protocol,
				LocalAddress: formatAddress(row.localAddr, row.localPort),
				Port:         int(row.localPort),
				Process:      unknownProcess,
			}
			if owner, ok := owners[row.inode]; ok {
				l.Process = owner.command
				l.PID = owner.pid
			}
			key := l.Protocol + "|" + l.LocalAddress
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			listeners = append(listeners, l)
		}
	}

	sort.SliceStable(listeners, func(i, j int) bool {
		a, b := listeners[i], listeners[j]
		if a.Port != b.Port {
			return a.Port < b.Port
		}
		if a.Protocol != b.Protocol {
			return a.Protocol < b.Protocol
		}
		return a.LocalAddress < b.LocalAddress
	})
	if limit := c.maxListeners(); len(listeners) > limit {
		listeners = listeners[:limit]
	}
	return listeners, errors.Join(errs...)
}

// formatAddress renders an address the way ss does: "0.0.0.0:22" for IPv4
// and "[::]:22" for IPv6.
func formatAddress(ip net.IP, port uint64) string {
	host := "0.0.0.0"
	if ip != nil {
		host = ip.String()
	}
	return net.JoinHostPort(host, strconv.FormatUint(port, 10))
}
