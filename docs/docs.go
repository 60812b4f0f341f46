// annotations for test cases, which help yield a test specification from the test suite
package docs

func Given(given string) {
}

func When(when string) {
}

func Then(then string) {
}

func Description(description string) {
}
