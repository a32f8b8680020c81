// Package app provides the application context for grove.
//
// This package manages application-wide dependencies using the functional
// options pattern, so commands can be tested against mocks.
//
// # App Context
//
//	type App struct {
//	    Runner   system.Runner       // runs git and the engine CLI
//	    Engine   runtime.Engine      // container engine, detected when nil
//	    Config   *config.Config      // fixed config, loaded when nil
//	    Prompter lifecycle.Prompter  // confirmation answers
//	}
//
// # Creating an App
//
//	// Production usage
//	a := app.New()
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithRunner(mockRunner),
//	    app.WithEngine(mockEngine),
//	    app.WithConfig(config.Default()),
//	)
//
// Commands use app.Default, which tests replace with SetDefault.
package app
