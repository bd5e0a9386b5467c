// Copyright 2025 The Rivaas Authors
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

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/common-nighthawk/go-figure"

	"rivaas.dev/uhttpd"
)

var bannerGradient = []string{"12", "14", "10", "11"}

// printBanner writes the startup banner and the registered routes to w.
func printBanner(w io.Writer, srv *uhttpd.Server) {
	art := figure.NewFigure("uhttpd", "", false)

	var styled strings.Builder
	for _, line := range art.Slicify() {
		if strings.TrimSpace(line) == "" {
			styled.WriteString("\n")
			continue
		}
		for i, char := range line {
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(bannerGradient[i%len(bannerGradient)])).
				Bold(true)
			styled.WriteString(style.Render(string(char)))
		}
		styled.WriteString("\n")
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Width(12).
		PaddingLeft(2)
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)

	fmt.Fprintln(w)
	fmt.Fprint(w, styled.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, labelStyle.Render("Address:")+"  "+valueStyle.Render("http://"+displayAddr(srv)))

	routes := srv.Routes()
	if len(routes) > 0 {
		fmt.Fprintln(w, labelStyle.Render("Routes:"))
		for _, route := range routes {
			methods := "ANY"
			if len(route.Methods) > 0 {
				methods = strings.Join(route.Methods, ",")
			}
			fmt.Fprintf(w, "    %-12s %s\n", methods, route.Pattern)
		}
	}
	fmt.Fprintln(w)
}

func displayAddr(srv *uhttpd.Server) string {
	addr := srv.Addr().String()
	if strings.HasPrefix(addr, ":") {
		return "0.0.0.0" + addr
	}
	return addr
}
