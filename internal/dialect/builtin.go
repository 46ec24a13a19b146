package dialect

// Builtins returns a fresh instance of every dialect shipped with the tool.
func Builtins() []Adapter {
	return []Adapter{
		NewVitestAdapter("vitest"),
		NewVitestAdapter("jest"),
		&avaAdapter{},
		&tapAdapter{},
		&junitAdapter{},
		&playwrightAdapter{},
		&cypressAdapter{},
		NewFlatAdapter("selenium", "tests"),
		NewFlatAdapter("supertest", "tests"),
		NewFlatAdapter("restassured", "tests"),
		NewFlatAdapter("karate", "scenarios"),
		&k6Adapter{},
		&jmeterAdapter{},
		&gatlingAdapter{},
	}
}
