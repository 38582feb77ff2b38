package main

import (
	"github.com/sirupsen/logrus"

	"reactiongame/internal/server"
)

func main() {
	if err := server.Run(); err != nil {
		logrus.Fatal(err.Error())
	}
}
