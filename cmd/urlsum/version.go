package main

import (
	"context"
	"fmt"

	"github.com/a-h/urlsum"
)

type VersionCommand struct {
}

func (c VersionCommand) Run(ctx context.Context) (err error) {
	fmt.Println(urlsum.Version)
	return nil
}
