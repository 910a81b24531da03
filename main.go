package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/km-arc/go-container/app"
	"github.com/km-arc/go-container/framework/container"
	gohttp "github.com/km-arc/go-container/http"
	"github.com/km-arc/go-container/routing"
)

// ── Demo services ────────────────────────────────────────────────────────────

// UserDirectory looks up display names by id.
type UserDirectory interface {
	Lookup(id string) (string, bool)
}

type memoryDirectory struct {
	log   *slog.Logger
	users map[string]string
}

func NewMemoryDirectory(log *slog.Logger) *memoryDirectory {
	return &memoryDirectory{
		log: log,
		users: map[string]string{
			"1": "Alice",
			"2": "Bob",
		},
	}
}

func (d *memoryDirectory) Lookup(id string) (string, bool) {
	name, ok := d.users[id]
	d.log.Debug("directory lookup", "id", id, "found", ok)
	return name, ok
}

// GreetingService composes greetings for known users.
type GreetingService struct {
	directory UserDirectory
}

func NewGreetingService(directory UserDirectory) *GreetingService {
	return &GreetingService{directory: directory}
}

func (s *GreetingService) Greet(id string) (string, bool) {
	name, ok := s.directory.Lookup(id)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("Hello, %s!", name), true
}

// ── Bootstrap ────────────────────────────────────────────────────────────────

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "bootstrap:", err)
		os.Exit(1)
	}
	defer application.Close()

	c := application.Container
	if err := c.Constructors(NewMemoryDirectory, NewGreetingService); err != nil {
		application.Logger().Error("declare constructors", "err", err)
		os.Exit(1)
	}
	if err := container.AddTypeMap[UserDirectory, *memoryDirectory](c, container.Singleton); err != nil {
		application.Logger().Error("register directory", "err", err)
		os.Exit(1)
	}
	if err := container.AddTypeMap[*GreetingService, *GreetingService](c, container.Transient); err != nil {
		application.Logger().Error("register greeter", "err", err)
		os.Exit(1)
	}

	r := application.Router()

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)
		res.Success(map[string]any{"message": "container demo"})
	})

	r.Get("/greet/{id}", func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)

		svc, err := container.Resolve[*GreetingService](c)
		if err != nil {
			res.ServerError()
			return
		}

		greeting, ok := svc.Greet(routing.Param(req, "id"))
		if !ok {
			res.NotFound("No such user.")
			return
		}
		res.Success(map[string]any{"greeting": greeting})
	})

	if err := application.Run(); err != nil {
		application.Logger().Error("server stopped", "err", err)
		os.Exit(1)
	}
}
