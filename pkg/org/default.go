package org

import (
	"github.com/DeganAI/Autonate/pkg/agents"
	"github.com/DeganAI/Autonate/pkg/config"
)

// Plugins available to the agents.
const (
	PluginDialpad    = "dialpad"
	PluginTracking   = "tracking"
	PluginWellness   = "wellness"
	PluginPrediction = "prediction"
)

const (
	providerAnthropic = "anthropic"
	providerOpenAI    = "openai"

	modelOpus   = "claude-3-opus-20240229"
	modelSonnet = "claude-3-sonnet-20240229"
	modelGPT4   = "gpt-4-turbo"
)

// Default returns the built-in organization definition.
func Default() *Organization {
	return &Organization{
		Name:        "Autonate Liberation Force",
		Description: "The multi-agent system that liberates auto transport coordinators while delighting customers",
		Mission:     "Give coordinators their lives back through intelligent automation and genuine care",
		Teams: []Team{
			{
				Name:        "Customer Experience Squadron",
				Description: "Handles all customer interactions with empathy and efficiency",
				Agents:      []agents.ID{agents.CustomerEmpath, agents.NarrativeArtist, agents.AutonatePrime},
			},
			{
				Name:        "Liberation Brigade",
				Description: "Protects coordinator wellbeing and enforces work-life balance",
				Agents:      []agents.ID{agents.WellnessGuardian, agents.AutonatePrime},
			},
			{
				Name:        "Prediction Division",
				Description: "Prevents problems before they happen",
				Agents:      []agents.ID{agents.RouteOracle, agents.CarrierVettor, agents.AutonatePrime},
			},
		},
		Agents: []Agent{
			{
				ID:        agents.AutonatePrime,
				Name:      "Autonate Prime",
				Character: "autonate",
				Role:      RoleOrchestrator,
				Plugins:   []string{PluginDialpad, PluginTracking, PluginWellness, PluginPrediction},
				Responsibilities: []string{
					"Coordinate between all specialized agents",
					"Handle complex multi-faceted situations",
					"Make final decisions on coordinator wellness interventions",
					"Maintain the liberation philosophy across all operations",
				},
				ModelProvider: providerAnthropic,
				Model:         modelOpus,
			},
			{
				ID:        agents.WellnessGuardian,
				Name:      "Wellness Guardian",
				Character: "wellness_guardian",
				Role:      RoleSpecialist,
				Plugins:   []string{PluginWellness, PluginDialpad},
				Responsibilities: []string{
					"Monitor coordinator stress levels continuously",
					"Enforce mandatory breaks",
					"Track working hours and prevent overtime",
					"Send supportive messages to coordinators",
					"Generate wellness reports",
				},
				ModelProvider: providerAnthropic,
				Model:         modelSonnet,
			},
			{
				ID:        agents.RouteOracle,
				Name:      "Route Oracle",
				Character: "route_oracle",
				Role:      RoleSpecialist,
				Plugins:   []string{PluginPrediction, PluginTracking},
				Responsibilities: []string{
					"Predict weather delays before they happen",
					"Identify problematic routes",
					"Suggest optimal carrier-route combinations",
					"Monitor traffic patterns and construction",
					"Generate predictive alerts",
				},
				ModelProvider: providerOpenAI,
				Model:         modelGPT4,
			},
			{
				ID:        agents.CustomerEmpath,
				Name:      "Customer Empath",
				Character: "customer_empath",
				Role:      RoleSpecialist,
				Plugins:   []string{PluginDialpad, PluginTracking},
				Responsibilities: []string{
					"Detect customer emotional states",
					"Provide empathetic responses",
					"Handle anxious first-time shippers",
					"De-escalate frustrated customers",
					"Build trust through understanding",
				},
				ModelProvider: providerAnthropic,
				Model:         modelSonnet,
			},
			{
				ID:        agents.CarrierVettor,
				Name:      "Carrier Vettor",
				Character: "carrier_vettor",
				Role:      RoleSpecialist,
				Plugins:   []string{PluginPrediction},
				Responsibilities: []string{
					"Evaluate carrier reliability",
					"Track carrier performance patterns",
					"Predict carrier flake probability",
					"Maintain the carrier black list",
					"Recommend best carrier matches",
				},
				ModelProvider: providerOpenAI,
				Model:         modelGPT4,
			},
			{
				ID:        agents.NarrativeArtist,
				Name:      "Narrative Artist",
				Character: "narrative_artist",
				Role:      RoleSpecialist,
				Plugins:   []string{PluginTracking},
				Responsibilities: []string{
					"Transform tracking updates into poetry",
					"Create delightful shipment narratives",
					"Generate milestone celebrations",
					"Write personalized journey stories",
					"Make logistics magical",
				},
				ModelProvider: providerAnthropic,
				Model:         modelOpus,
			},
		},
		Workflows: []Workflow{
			{
				Name:    "Customer Inquiry Flow",
				Trigger: "customer_message",
				Steps: []Step{
					{Agent: agents.CustomerEmpath, Action: "analyze_emotional_state", Output: "emotional_context"},
					{Agent: agents.AutonatePrime, Action: "process_inquiry", Input: Labels{"customer_message", "emotional_context"}, Output: "response_plan"},
					{Agent: agents.NarrativeArtist, Action: "enhance_response", Input: Labels{"response_plan"}, Output: "final_response", Condition: "if tracking_update"},
				},
			},
			{
				Name:     "Coordinator Protection Flow",
				Trigger:  "periodic_check",
				Interval: "15m",
				Steps: []Step{
					{Agent: agents.WellnessGuardian, Action: "check_all_coordinators", Output: "wellness_report"},
					{Agent: agents.AutonatePrime, Action: "review_interventions", Input: Labels{"wellness_report"}, Output: "intervention_decisions"},
					{Agent: agents.WellnessGuardian, Action: "execute_interventions", Input: Labels{"intervention_decisions"}},
				},
			},
			{
				Name:    "Predictive Problem Prevention",
				Trigger: "new_order",
				Steps: []Step{
					{Agent: agents.RouteOracle, Action: "analyze_route_risks", Output: "route_predictions"},
					{Agent: agents.CarrierVettor, Action: "evaluate_carriers", Input: Labels{"order_details"}, Output: "carrier_recommendations"},
					{Agent: agents.AutonatePrime, Action: "assign_optimal_carrier", Input: Labels{"route_predictions", "carrier_recommendations"}, Output: "carrier_assignment"},
				},
			},
		},
		Settings: Settings{
			Compute3: Compute3Settings{
				APIKeyEnv: config.EnvAPIKey,
				Endpoint:  config.DefaultEndpoint,
				Workspace: config.DefaultWorkspace,
			},
			Dialpad: DialpadSettings{
				APIKeyEnv:      "DIALPAD_API_KEY",
				PhoneNumberEnv: "DIALPAD_PHONE_NUMBER",
			},
			Database: DatabaseSettings{
				Type:   "postgres",
				URLEnv: "DATABASE_URL",
			},
			Monitoring: MonitoringSettings{
				LiberationMetrics:    true,
				CoordinatorWellness:  true,
				CustomerSatisfaction: true,
			},
		},
	}
}

// ForConfig returns the built-in organization bound to the platform
// endpoint and workspace of cfg.
func ForConfig(cfg *config.Config) *Organization {
	o := Default()
	o.Settings.Compute3.Endpoint = cfg.Endpoint()
	o.Settings.Compute3.Workspace = cfg.Workspace()
	return o
}
