/*
 This file has implementation of the main banner for the tool. It is used in cmd/root.go
*/
package utils

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const bannerArt = `
      _                 _  __                     _
  ___| | ___  _   _  __| |/ _| __ _  ___ __ _  __| | ___
 / __| |/ _ \| | | |/ _| | |_ / _| |/ __/ _| |/ _| |/ _ \
| (__| | (_) | |_| | (_| |  _| (_| | (_| (_| | (_| |  __/
 \___|_|\___/ \__,_|\__,_|_|  \__,_|\___\__,_|\__,_|\___|
`

func DisplayBanner() {
	color.Magenta(strings.Trim(bannerArt, "\n"))
	fmt.Println()
	fmt.Println("Uniform AWS resource management")
	fmt.Println("-------------------------------")
}
