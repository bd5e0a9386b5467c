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

package uhttpd_test

import (
	"fmt"
	"io"
	"log"

	"rivaas.dev/uhttpd"
)

// Example demonstrates a minimal server with a parameterized route.
func Example() {
	srv := uhttpd.MustNew()

	err := srv.Register("/hello/<name>", func(_ *uhttpd.Request, resp *uhttpd.ResponseWriter, params uhttpd.Params) {
		resp.AddHeader("Content-Type", "text/plain")
		resp.Send([]byte("Hello, " + params.Get("name") + "!\n"))
	})
	if err != nil {
		log.Fatal(err)
	}

	log.Fatal(srv.Run(":8080"))
}

// ExampleWithMethods restricts a route to specific request methods. Requests
// for a matching path with a different method receive a 405 response.
func ExampleWithMethods() {
	srv := uhttpd.MustNew()

	srv.Register("/items", func(req *uhttpd.Request, resp *uhttpd.ResponseWriter, _ uhttpd.Params) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			resp.SetStatus(400)
			return
		}
		resp.SetStatus(201)
		resp.Send(body)
	}, uhttpd.WithMethods("POST"))

	log.Fatal(srv.Run(":8080"))
}

// ExampleServer_RegisterCatchAll installs a fallback handler for requests no
// route matches.
func ExampleServer_RegisterCatchAll() {
	srv := uhttpd.MustNew(uhttpd.WithMaxLineBytes(512))

	srv.Register("/status", func(_ *uhttpd.Request, resp *uhttpd.ResponseWriter, _ uhttpd.Params) {
		resp.Send([]byte("ok\n"))
	})
	srv.RegisterCatchAll(func(req *uhttpd.Request, resp *uhttpd.ResponseWriter, _ uhttpd.Params) {
		resp.SetStatus(404)
		fmt.Fprintf(resp, "no such page: %s\n", req.Path)
	})

	log.Fatal(srv.Run(":8080"))
}
