package model

// PluginRequest is the body of a lifecycle call to the plugin server
type PluginRequest struct {
	PluginConfig RawConfig     `json:"pluginConfig"`
	Context      PluginContext `json:"context"`
}

// PluginContext is the serializable part of RunContext
type PluginContext struct {
	Cwd         string            `json:"cwd"`
	Env         map[string]string `json:"env"`
	NextRelease *NextRelease      `json:"nextRelease,omitempty"`
}

// PluginResponse carries the summary of publish and addChannel. Result is false
// when nothing was released and for steps without a result.
type PluginResponse struct {
	Step   LifecycleStep `json:"step"`
	Result any           `json:"result"`
}

// PluginError is the machine-readable error object returned to the orchestrator
type PluginError struct {
	Error  string         `json:"error"`
	Code   string         `json:"code"`
	Values map[string]any `json:"values,omitempty"`
}
