// Command signatoryctl runs the signatories server and manages the
// signatories of course certificates.
//
// # Quick Start
//
//	# Run database migrations
//	signatoryctl db migrate
//
//	# Start the server, reloading editor templates when they change
//	signatoryctl server --watch-templates
//
//	# List and delete signatories of a certificate
//	signatoryctl signatory list course-v1:edX+DemoX+Demo_Course
//	signatoryctl signatory delete course-v1:edX+DemoX+Demo_Course 2
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - SIGNATORIES_CERTIFICATE_BASE_URL: Base URL of the certificates resource
//   - SIGNATORIES_CONFIG_PATH: Directory holding signatories.yml
//   - SIGNATORIES_LOG_LEVEL: Log level (debug, info, warn, error)
//   - PORT: Server port (default: 8000)
package main
