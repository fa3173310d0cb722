// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package main

import "github.com/tram-stm/go-tram/pkg/cli"

func main() {
	cli.Execute()
}
