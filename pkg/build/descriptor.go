package build

import (
	"bytes"
	"text/template"

	"github.com/DeganAI/Autonate/pkg/agents"
	"github.com/pkg/errors"
)

// DescriptorName is the build descriptor file written into each agent's
// build context.
const DescriptorName = "Dockerfile"

// Environment markers baked into every agent image.
const (
	NodeEnv        = "production"
	LiberationMode = "enabled"
)

var descriptorTemplate = template.Must(template.New(DescriptorName).Parse(`FROM node:20-alpine

# Install dependencies
RUN apk add --no-cache python3 make g++

WORKDIR /app

# Copy package files
COPY package*.json ./
RUN npm ci --only=production

# Copy agent code
COPY ./agents/{{.Agent}} ./agents/{{.Agent}}
COPY ./shared ./shared
COPY ./characters ./characters
COPY ./plugins ./plugins

# Set agent-specific environment
ENV AGENT_ID={{.Agent}}
ENV NODE_ENV={{.NodeEnv}}
ENV LIBERATION_MODE={{.LiberationMode}}

# Health check endpoint
HEALTHCHECK --interval=30s --timeout=10s --start-period=5s --retries=3 \
  CMD node healthcheck.js

# Run the agent
CMD ["node", "start-agent.js"]
`))

// Descriptor renders the build descriptor for agent.
func Descriptor(agent agents.ID) ([]byte, error) {
	var buf bytes.Buffer
	err := descriptorTemplate.Execute(&buf, struct {
		Agent          agents.ID
		NodeEnv        string
		LiberationMode string
	}{agent, NodeEnv, LiberationMode})
	if err != nil {
		return nil, errors.Wrapf(err, "render descriptor for %s", agent)
	}
	return buf.Bytes(), nil
}
