package server

import "fmt"

// displayServerInfo prints startup information to the console
func (s *Server) displayServerInfo() {
	addr := s.Host + ":" + s.Port

	fmt.Printf("cvlens server %s listening on http://%s\n", s.Version, addr)
	fmt.Println("Endpoints:")
	fmt.Printf("  GET  http://%s/health\n", addr)
	fmt.Printf("  GET  http://%s/stats\n", addr)
	fmt.Printf("  POST http://%s/parse      (multipart: resume, model)\n", addr)
	fmt.Printf("  POST http://%s/questions  (JSON body)\n", addr)

	if len(s.APIKeys) > 0 {
		fmt.Printf("Authentication: enabled (%d API keys)\n", len(s.APIKeys))
	} else {
		fmt.Println("Authentication: disabled")
	}

	if s.MaxRequestSize > 0 {
		fmt.Printf("Max request size: %.1f MB\n", float64(s.MaxRequestSize)/(1024*1024))
	}

	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Printf("Rate limiting: %d req/min, burst %d\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
	} else {
		fmt.Println("Rate limiting: disabled")
	}
}
