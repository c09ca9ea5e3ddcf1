// Package middleware provides HTTP middleware for the preview server.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Response compression (gzip) for the manifest and other text responses
//   - Prometheus request metrics with image-tree path normalization
//   - Configurable filtering for static files and health checks
package middleware
