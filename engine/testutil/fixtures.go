package testutil

// Test user information used across all test helpers.
const (
	// TestAuthor is the default author name for test commits.
	TestAuthor = "Test User"

	// TestEmail is the default email for test commits.
	TestEmail = "test@example.com"
)

// Test repository identifiers.
const (
	// TestIdentifier is a sample namespaced repository identifier.
	TestIdentifier = "group/project"

	// TestRoot is the storage root used by test locators.
	TestRoot = "/repositories"
)

// Test refs.
const (
	// TestBranchMain is the default branch of test repositories.
	TestBranchMain = "main"

	// TestBranchFeature is a feature branch name.
	TestBranchFeature = "feature-x"

	// TestTagName is a standard test tag name.
	TestTagName = "v1.0.0"

	// TestTagMessage is a standard tag message.
	TestTagMessage = "Release version 1.0.0"
)

// TestFileContent is sample content for README files.
const TestFileContent = "# Test Repository\n\nThis is a test repository.\n"
