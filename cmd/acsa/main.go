// Command acsa is a thin composition-root CLI over the ACSA router:
// it wires C1–C8 from a config.Config and drives one routed request
// at a time. It is a demonstration of wiring, not a product surface.
package main

func main() {
	Execute()
}
