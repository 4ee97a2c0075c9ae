package config

type AppConfig struct {
	Server ServerConfig
	Match  MatchConfig
	Log    LogConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	matchCfg, err := LoadMatch()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Match:  matchCfg,
		Log:    logCfg,
	}, nil
}
