package preview

import "html/template"

type pageData struct {
	Scenario    string
	Description string
	Tick        int
	Output      template.HTML
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>vtree: {{.Scenario}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
#output { border: 1px solid #ccc; padding: 1rem; }
#patches { font-family: monospace; font-size: 12px; color: #666; }
</style>
</head>
<body>
<h2>{{.Scenario}} <small>tick <span id="tick">{{.Tick}}</span></small></h2>
<p>{{.Description}}</p>
<div id="output">{{.Output}}</div>
<pre id="patches"></pre>
<script>
(function() {
    'use strict';

    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        var ws = new WebSocket(protocol + '//' + location.host + '/ws');

        ws.onopen = function() {
            reconnectDelay = 1000;
        };

        ws.onmessage = function(e) {
            var frame;
            try {
                frame = JSON.parse(e.data);
            } catch (err) {
                return;
            }
            document.getElementById('output').innerHTML = frame.html;
            document.getElementById('tick').textContent = frame.tick;
            var lines = (frame.patches || []).slice();
            if (frame.error) {
                lines.unshift('error: ' + frame.error);
            }
            document.getElementById('patches').textContent = lines.join('\n');
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };
    }

    connect();
})();
</script>
</body>
</html>
`))
