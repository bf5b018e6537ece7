package container_test

import (
	"fmt"

	"github.com/km-arc/go-container"
)

type Greeter struct{ prefix string }

func (g *Greeter) Greet(name string) string { return g.prefix + name }

func Example() {
	c := container.New()

	c.Singleton("greeter", func(container.Resolver) (any, error) {
		return &Greeter{prefix: "hello, "}, nil
	})

	g := container.MustResolve[*Greeter](c, "greeter")
	fmt.Println(g.Greet("world"))
	// Output: hello, world
}

func ExampleContainer_Autowire() {
	c := container.New()
	c.Instance(container.TypeKeyFor[*Greeter](), &Greeter{prefix: "hi, "})
	c.MustAutowire("welcome", func(g *Greeter) string { return g.Greet("gopher") },
		container.Transient)

	fmt.Println(c.MustMake("welcome"))
	// Output: hi, gopher
}

func ExampleContainer_Tagged() {
	c := container.New()
	c.Instance("report.cpu", "cpu: ok")
	c.Instance("report.mem", "mem: ok")
	c.Tag([]string{"report.cpu", "report.mem"}, "reports")

	reports, _ := c.Tagged("reports")
	for _, r := range reports {
		fmt.Println(r)
	}
	// Output:
	// cpu: ok
	// mem: ok
}
