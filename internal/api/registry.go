package api

import (
	"strings"
	"sync"

	"github.com/thanhvo/shiftdesk/internal/controller"
)

// gridRegistry holds the live grid controller per employee. A load replaces
// the entry wholesale, so switching weeks never leaks state from the
// previous selection. Keys are lowercased emails.
type gridRegistry struct {
	mu       sync.Mutex
	employee map[string]*controller.EmployeeGrid
	admin    map[string]*controller.AdminGrid
}

func newGridRegistry() *gridRegistry {
	return &gridRegistry{
		employee: make(map[string]*controller.EmployeeGrid),
		admin:    make(map[string]*controller.AdminGrid),
	}
}

func gridKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (g *gridRegistry) getEmployee(email string) (*controller.EmployeeGrid, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	grid, ok := g.employee[gridKey(email)]
	return grid, ok
}

func (g *gridRegistry) putEmployee(email string, grid *controller.EmployeeGrid) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.employee[gridKey(email)] = grid
}

func (g *gridRegistry) getAdmin(email string) (*controller.AdminGrid, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	grid, ok := g.admin[gridKey(email)]
	return grid, ok
}

func (g *gridRegistry) putAdmin(email string, grid *controller.AdminGrid) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.admin[gridKey(email)] = grid
}

func (g *gridRegistry) drop(email string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.employee, gridKey(email))
	delete(g.admin, gridKey(email))
}
