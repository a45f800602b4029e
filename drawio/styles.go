package drawio

import (
	"strings"

	"archdraw/catalog"
)

// EdgeColor and EdgeStrokeWidth style every exported connector.
const (
	EdgeColor       = "#545B64"
	EdgeStrokeWidth = "1.5"
)

const pointsStyle = "points=[[0,0,0],[0.25,0,0],[0.5,0,0],[0.75,0,0],[1,0,0],[0,1,0],[0.25,1,0],[0.5,1,0],[0.75,1,0],[1,1,0],[0,0.25,0],[0,0.5,0],[0,0.75,0],[1,0.25,0],[1,0.5,0],[1,0.75,0]];outlineConnect=0;"

const frameBaseStyle = "points=[[0,0],[0.25,0],[0.5,0],[0.75,0],[1,0],[1,0.25],[1,0.5],[1,0.75],[1,1],[0.75,1],[0.5,1],[0.25,1],[0,1],[0,0.75],[0,0.5],[0,0.25]];outlineConnect=0;gradientColor=none;html=1;whiteSpace=wrap;fontSize=12;fontStyle=0;container=1;pointerEvents=0;collapsible=0;recursiveResize=0;"

const textStyle = "text;html=1;align=center;verticalAlign=middle;resizable=0;points=[];autosize=1;strokeColor=none;fillColor=none;"

const fallbackNodeStyle = "sketch=0;" + pointsStyle + "fontColor=" + catalog.ColorGeneralDark + ";fillColor=#E7157B;strokeColor=#ffffff;dashed=0;verticalLabelPosition=bottom;verticalAlign=top;align=center;html=1;fontSize=12;fontStyle=0;aspect=fixed;shape=mxgraph.aws4.resourceIcon;resIcon=mxgraph.aws4.organizations;"

const edgeStyle = "edgeStyle=orthogonalEdgeStyle;html=1;endArrow=block;elbow=vertical;startArrow=none;endFill=1;strokeColor=" + EdgeColor + ";strokeWidth=" + EdgeStrokeWidth + ";rounded=0;"

type elementType int

const (
	resourceIcon elementType = iota // mxgraph.aws4.resourceIcon with a resIcon
	customShape                     // a dedicated mxgraph shape
	textLabel                       // a plain text cell
)

// elementStyle describes how one node kind is drawn in draw.io.
type elementStyle struct {
	typ           elementType
	color         string
	icon          string
	shape         string
	fillColor     string
	strokeColor   string
	width, height float64
	pointerEvents *bool
	includePoints *bool
	style         string
}

type styleOption func(*elementStyle)

func withFill(c string) styleOption   { return func(e *elementStyle) { e.fillColor = c } }
func withStroke(c string) styleOption { return func(e *elementStyle) { e.strokeColor = c } }
func withSize(w, h float64) styleOption {
	return func(e *elementStyle) { e.width, e.height = w, h }
}
func withPointerEvents(on bool) styleOption {
	return func(e *elementStyle) { e.pointerEvents = &on }
}
func withPoints(on bool) styleOption {
	return func(e *elementStyle) { e.includePoints = &on }
}

func resource(color, icon string, opts ...styleOption) elementStyle {
	e := elementStyle{typ: resourceIcon, color: color, icon: icon}
	for _, o := range opts {
		o(&e)
	}
	return e
}

func custom(color, shape string, opts ...styleOption) elementStyle {
	e := elementStyle{typ: customShape, color: color, shape: shape}
	for _, o := range opts {
		o(&e)
	}
	return e
}

func generalIcon(shape string, opts ...styleOption) elementStyle {
	return custom(catalog.ColorGeneralDark, shape, opts...)
}

var elementStyles = map[string]elementStyle{
	"WAF":             resource(catalog.ColorSecurity, "waf"),
	"EC2":             resource(catalog.ColorCompute, "ec2"),
	"ECS":             resource(catalog.ColorCompute, "ecs"),
	"EKS":             resource(catalog.ColorCompute, "eks"),
	"Lambda":          resource(catalog.ColorCompute, "lambda"),
	"AMI":             resource(catalog.ColorCompute, "ami"),
	"AppStream":       resource(catalog.ColorML, "appstream_20"),
	"ECR":             resource(catalog.ColorCompute, "ecr"),
	"S3":              resource(catalog.ColorStorage, "s3"),
	"EFS":             resource(catalog.ColorStorage, "elastic_file_system"),
	"FSx":             resource(catalog.ColorStorage, "fsx"),
	"Backup":          resource(catalog.ColorStorage, "backup"),
	"StorageGateway":  resource(catalog.ColorStorage, "storage_gateway"),
	"RDS":             resource(catalog.ColorDatabaseOld, "rds"),
	"DynamoDB":        resource(catalog.ColorDatabase, "dynamodb"),
	"Redshift":        resource(catalog.ColorDatabase, "redshift"),
	"ElastiCache":     resource(catalog.ColorDatabase, "elasticache"),
	"ELB":             resource(catalog.ColorNetworking, "elastic_load_balancing"),
	"CloudFront":      resource(catalog.ColorNetworking, "cloudfront"),
	"Route53":         resource(catalog.ColorNetworking, "route_53"),
	"InternetGW":      resource(catalog.ColorNetworking, "internet_gateway"),
	"DirectConnect":   resource(catalog.ColorNetworking, "direct_connect"),
	"SitetoSiteVPN":   resource(catalog.ColorNetworking, "site_to_site_vpn"),
	"APIGateway":      resource(catalog.ColorNetworking, "api_gateway"),
	"Athena":          resource(catalog.ColorNetworking, "athena"),
	"QuickSight":      resource(catalog.ColorNetworking, "quicksight"),
	"DataFirehose":    resource(catalog.ColorNetworking, "kinesis_data_firehose"),
	"DataStream":      resource(catalog.ColorCompute, "kinesis_data_streams"),
	"BedRock":         resource(catalog.ColorML, "bedrock"),
	"SageMaker":       resource(catalog.ColorML, "sagemaker"),
	"Cognito":         resource(catalog.ColorSecurity, "cognito"),
	"KMS":             resource(catalog.ColorSecurity, "key_management_service"),
	"SecretsManager":  resource(catalog.ColorSecurity, "secrets_manager"),
	"GuardDuty":       resource(catalog.ColorSecurity, "guardduty"),
	"IdentityCenter":  resource(catalog.ColorSecurity, "single_sign_on"),
	"NetworkFirewall": resource(catalog.ColorSecurity, "network_firewall"),
	"CloudWatch":      resource(catalog.ColorManagement, "cloudwatch"),
	"SystemsManager":  resource(catalog.ColorManagement, "systems_manager"),
	"CloudFormation":  resource(catalog.ColorManagement, "cloudformation"),
	"SQS":             resource(catalog.ColorManagement, "sqs"),
	"SNS":             resource(catalog.ColorManagement, "sns"),
	"EventBridge":     resource(catalog.ColorManagement, "eventbridge"),
	"SES":             resource(catalog.ColorManagement, "simple_email_service"),
	"CodeDeploy":      resource(catalog.ColorDatabase, "codedeploy"),
	"CodeBuild":       resource(catalog.ColorDatabase, "codebuild"),
	"CodePipeline":    resource(catalog.ColorDatabase, "codepipeline"),
	"MGN":             resource(catalog.ColorML, "cloudendure_migration"),
	"DMS":             resource(catalog.ColorDatabase, "database_migration_service"),
	"Workspaces":      resource(catalog.ColorML, "workspaces_family"),
	"Amplify":         resource(catalog.ColorSecurity, "amplify"),
	"Organizations":   resource(catalog.ColorSecurity, "organizations"),
	"CloudTrail":      resource(catalog.ColorManagement, "cloudtrail"),
	"SingleSignOn":    resource(catalog.ColorSecurity, "single_sign_on"),
	"TransitGW":       resource(catalog.ColorNetworking, "transit_gateway"),
	"OtherService":    resource(catalog.ColorGeneral, "general", withPointerEvents(true)),
	"Mobile": resource(catalog.ColorGeneralDark, "mobile_client",
		withFill("#ffffff"), withStroke(catalog.ColorGeneralDark), withPoints(false), withPointerEvents(false)),
	"Snapshot":      custom(catalog.ColorStorage, "mxgraph.aws4.snapshot", withStroke("none")),
	"ManagedAD":     custom(catalog.ColorSecurity, "mxgraph.aws4.managed_ms_ad", withStroke("none")),
	"IAMRole":       custom(catalog.ColorSecurity, "mxgraph.aws4.role", withStroke("none")),
	"NATGW":         custom(catalog.ColorNetworking, "mxgraph.aws4.nat_gateway", withStroke("none")),
	"VPCEndpoint":   custom(catalog.ColorNetworking, "mxgraph.aws4.endpoints", withStroke("none")),
	"Users":         generalIcon("mxgraph.aws4.illustration_users", withStroke("#ffffff"), withPoints(true), withPointerEvents(false)),
	"Internet":      generalIcon("mxgraph.aws4.internet", withStroke("#ffffff"), withPoints(true), withPointerEvents(false)),
	"Client":        generalIcon("mxgraph.aws4.client"),
	"Server":        generalIcon("mxgraph.aws4.traditional_server"),
	"Mail":          generalIcon("mxgraph.aws4.email_2"),
	"Repeat":        generalIcon("mxgraph.aws4.recover"),
	"Certification": generalIcon("mxgraph.aws4.credentials"),
	"Search":        generalIcon("mxgraph.aws4.magnifying_glass_2"),
	"Files":         generalIcon("mxgraph.aws4.documents3"),
	"Disk":          generalIcon("mxgraph.aws4.generic_database", withSize(59, 78)),
	"Storage":       generalIcon("mxgraph.aws4.generic_database"),
	"Folder":        generalIcon("mxgraph.aws4.folders", withSize(78, 71)),
	"Folders":       generalIcon("mxgraph.aws4.folders"),
	"TextBox":       {typ: textLabel, style: textStyle},
}

// String renders the draw.io style attribute.
func (e elementStyle) String() string {
	if e.typ == textLabel {
		if e.style == "" {
			return textStyle
		}
		return e.style
	}
	if e.style != "" {
		return ensureSemicolon(e.style)
	}

	includePoints := e.typ == resourceIcon
	if e.includePoints != nil {
		includePoints = *e.includePoints
	}
	var b strings.Builder
	b.WriteString("sketch=0;")
	if includePoints {
		b.WriteString(pointsStyle)
	} else {
		b.WriteString("outlineConnect=0;")
	}
	b.WriteString("fontColor=" + catalog.ColorGeneralDark + ";gradientColor=none;")

	fill := firstNonEmpty(e.fillColor, e.color, catalog.ColorGeneralDark)
	b.WriteString("fillColor=" + fill + ";")

	stroke := "none"
	if e.typ == resourceIcon {
		stroke = "#ffffff"
	}
	stroke = firstNonEmpty(e.strokeColor, stroke)
	b.WriteString("strokeColor=" + stroke + ";dashed=0;verticalLabelPosition=bottom;verticalAlign=top;align=center;html=1;fontSize=12;fontStyle=0;aspect=fixed;")

	pointerEvents := e.typ != resourceIcon
	if e.pointerEvents != nil {
		pointerEvents = *e.pointerEvents
	}
	if pointerEvents {
		b.WriteString("pointerEvents=1;")
	}

	shape := e.shape
	if shape == "" && e.typ == resourceIcon {
		shape = "mxgraph.aws4.resourceIcon"
	}
	if shape != "" {
		b.WriteString("shape=" + shape + ";")
	}
	if e.icon != "" {
		b.WriteString("resIcon=mxgraph.aws4." + e.icon + ";")
	}
	return b.String()
}

// size returns the exported cell size of the element.
func (e elementStyle) size() (float64, float64) {
	w, h := e.width, e.height
	if w == 0 {
		w = iconSize
	}
	if h == 0 {
		h = iconSize
	}
	return w, h
}

type frameColors struct {
	stroke, fill, font string
}

var frameColorTable = map[string]frameColors{
	"Region":        {"#00A4A6", "none", "#147EBA"},
	"VPC":           {catalog.ColorNetworking, "none", "#AAB7B8"},
	"AZ":            {"#147EBA", "none", "#147EBA"},
	"PrivateSubnet": {"#E6F6F7", "#E6F6F7", "#147EBA"},
	"PublicSubnet":  {"#F2F6E8", "#F2F6E8", "#248814"},
	"Building":      {"#7D8998", "none", catalog.ColorGeneral},
	"GeneralGroup":  {catalog.ColorGeneral, "none", catalog.ColorGeneral},
	"AutoScaling":   {catalog.ColorCompute, "none", catalog.ColorCompute},
	"Account":       {catalog.ColorGeneralDark, "none", catalog.ColorGeneralDark},
}

var frameGroupShapes = map[string]string{
	"Account":       "shape=mxgraph.aws4.group;grIcon=mxgraph.aws4.group_aws_cloud_alt",
	"Region":        "shape=mxgraph.aws4.group;grIcon=mxgraph.aws4.group_region",
	"VPC":           "shape=mxgraph.aws4.group;grIcon=mxgraph.aws4.group_vpc2",
	"AZ":            "",
	"PublicSubnet":  "shape=mxgraph.aws4.group;grIcon=mxgraph.aws4.group_security_group",
	"PrivateSubnet": "shape=mxgraph.aws4.group;grIcon=mxgraph.aws4.group_security_group",
	"Building":      "shape=mxgraph.aws4.group;grIcon=mxgraph.aws4.group_corporate_data_center",
	"AutoScaling":   "shape=mxgraph.aws4.groupCenter;grIcon=mxgraph.aws4.group_auto_scaling_group",
	"GeneralGroup":  "shape=mxgraph.aws4.group;grIcon=mxgraph.aws4.group_generic",
}

// Frames whose style is fixed rather than assembled from the tables above.
var specialFrameStyles = map[string]string{
	"PublicSubnet":  "shape=mxgraph.aws4.group;grIcon=mxgraph.aws4.group_security_group;grStroke=0;strokeColor=#7AA116;fillColor=#F2F6E8;verticalAlign=top;align=left;spacingLeft=30;fontColor=#248814;dashed=0;",
	"PrivateSubnet": "shape=mxgraph.aws4.group;grIcon=mxgraph.aws4.group_security_group;grStroke=0;strokeColor=#00A4A6;fillColor=#E6F6F7;verticalAlign=top;align=left;spacingLeft=30;fontColor=#147EBA;dashed=0;",
	"AutoScaling":   frameBaseStyle + "shape=mxgraph.aws4.groupCenter;grIcon=mxgraph.aws4.group_auto_scaling_group;grStroke=1;strokeColor=#D86613;fillColor=none;verticalAlign=top;align=center;fontColor=#D86613;dashed=1;spacingTop=25;",
	"StepFunctions": frameBaseStyle + "shape=mxgraph.aws4.group;grIcon=mxgraph.aws4.group_aws_step_functions_workflow;strokeColor=#CD2264;fillColor=none;verticalAlign=top;align=left;spacingLeft=30;fontColor=#CD2264;dashed=0;",
}

// frameStyle renders the style attribute of a frame of the given kind.
func frameStyle(kind string) string {
	if s, ok := specialFrameStyles[kind]; ok {
		return s
	}
	shape, ok := frameGroupShapes[kind]
	if !ok || (shape == "" && kind != "AZ") {
		shape = frameGroupShapes["GeneralGroup"]
	}
	colors, ok := frameColorTable[kind]
	if !ok {
		colors = frameColorTable["GeneralGroup"]
	}
	dashed, align, spacingLeft := "0", "left", "30"
	if kind == "Region" || kind == "AZ" || kind == "GeneralGroup" {
		dashed = "1"
	}
	if kind == "AZ" {
		align, spacingLeft = "center", "0"
	}

	var b strings.Builder
	b.WriteString(frameBaseStyle)
	if shape != "" {
		b.WriteString(shape + ";")
	}
	b.WriteString("strokeColor=" + colors.stroke + ";fillColor=" + colors.fill)
	b.WriteString(";verticalAlign=top;align=" + align + ";spacingLeft=" + spacingLeft)
	b.WriteString(";fontColor=" + colors.font + ";dashed=" + dashed + ";")
	return b.String()
}

var frameKindsByIcon = map[string]string{
	"mxgraph.aws4.group_aws_cloud_alt":              "Account",
	"mxgraph.aws4.group_region":                     "Region",
	"mxgraph.aws4.group_vpc2":                       "VPC",
	"mxgraph.aws4.group_corporate_data_center":      "Building",
	"mxgraph.aws4.group_auto_scaling_group":         "AutoScaling",
	"mxgraph.aws4.group_generic":                    "GeneralGroup",
	"mxgraph.aws4.group_aws_step_functions_workflow": "StepFunctions",
}

// Reverse lookups for parsing, built from elementStyles.
var (
	nodeKindsByResIcon = map[string]string{}
	nodeKindsByShape   = map[string]string{}
)

func init() {
	for kind, e := range elementStyles {
		if e.icon != "" {
			setLast(nodeKindsByResIcon, "mxgraph.aws4."+e.icon, kind)
		}
		if e.shape != "" {
			setLast(nodeKindsByShape, e.shape, kind)
		}
	}
}

// setLast keeps the alphabetically last kind when several share an icon
// (SingleSignOn over IdentityCenter, Storage over Disk) so parsing does not
// depend on map iteration order.
func setLast(m map[string]string, key, kind string) {
	if cur, ok := m[key]; !ok || kind > cur {
		m[key] = kind
	}
}

// parseStyle splits a draw.io style string into its key/value pairs. Bare
// flags such as "text" map to the empty string.
func parseStyle(style string) map[string]string {
	m := make(map[string]string)
	for _, chunk := range strings.Split(style, ";") {
		if chunk == "" {
			continue
		}
		key, value, _ := strings.Cut(chunk, "=")
		m[key] = value
	}
	return m
}

func ensureSemicolon(s string) string {
	if strings.HasSuffix(s, ";") {
		return s
	}
	return s + ";"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
