package main

import (
	"flag"
	"log"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"
)

var evalOnly bool

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// textCmd adapts a command producing text to ishell.
func textCmd(name, help string, fn func(args []string) (string, error)) *ishell.Cmd {
	return &ishell.Cmd{
		Name: name,
		Help: help,
		Func: func(c *ishell.Context) {
			out, err := fn(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			c.Print(out)
		},
	}
}

func newShell() *ishell.Shell {
	sh := ishell.New()
	sh.SetPrompt("ir > ")
	sh.AddCmd(&ishell.Cmd{
		Name:    "protocols",
		Aliases: []string{"list", "l"},
		Help:    "list supported protocols",
		Func: func(c *ishell.Context) {
			c.Print(listProtocols())
		},
	})
	sh.AddCmd(textCmd("timing", "PROTOCOL", showTiming))
	sh.AddCmd(textCmd("encode", "PROTOCOL ADDRESS COMMAND", encode))
	sh.AddCmd(textCmd("decode", "PROTOCOL RAW", decode))
	sh.AddCmd(textCmd("send", "PROTOCOL ADDRESS COMMAND", send))
	sh.AddCmd(textCmd("repeat", "PROTOCOL", repeat))
	sh.AddCmd(textCmd("loopback", "PROTOCOL ADDRESS COMMAND", loopback))
	sh.AddCmd(textCmd("replay", "FILE [PROTOCOL...]", replay))
	return sh
}

func main() {
	flag.Parse()
	defer glog.Flush()

	sh := newShell()
	if args := flag.Args(); len(args) > 0 {
		if err := sh.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if evalOnly {
		log.Fatalln("command expected")
	}
	sh.Run()
}
